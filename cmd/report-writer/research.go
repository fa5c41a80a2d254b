package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KS2225/AI-report-writer/config"
	"github.com/KS2225/AI-report-writer/internal/agent/core"
	"github.com/KS2225/AI-report-writer/internal/agent/telemetry"
)

func researchCMD() *cobra.Command {
	var cfgPath string
	var research = &cobra.Command{
		Use:   "research [query]",
		Short: "Run one research query and print the report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}

			tel := telemetry.NewTelemetry(cfg.Telemetry)
			llmProvider, err := core.NewLLMProvider(cfg.LLM, tel)
			if err != nil {
				return err
			}
			searcher, err := core.NewWebSearchAdapter(cfg.Search, tel)
			if err != nil {
				return err
			}
			orch := core.NewOrchestrator(cfg, llmProvider, searcher, tel)

			query := strings.Join(args, " ")
			result := orch.Run(cmd.Context(), query, func(fraction float64, label string) {
				fmt.Fprintf(cmd.ErrOrStderr(), "[%3.0f%%] %s\n", fraction*100, label)
			})

			out := cmd.OutOrStdout()
			if result.Failed {
				fmt.Fprintln(out, result.Summary)
				return fmt.Errorf("research failed")
			}

			fmt.Fprintf(out, "Summary\n-------\n%s\n\n", result.Summary)
			fmt.Fprintf(out, "%s\n\n", result.Report)
			fmt.Fprintf(out, "Follow-up questions\n-------------------\n%s\n", result.FollowUps)
			return nil
		},
	}
	research.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return research
}
