package main

import (
	"github.com/spf13/cobra"

	"github.com/KS2225/AI-report-writer/config"
	srv "github.com/KS2225/AI-report-writer/internal/server"
)

func serveCMD() *cobra.Command {
	var cfgPath string
	var addr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return srv.Run(cfg)
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	serve.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return serve
}
