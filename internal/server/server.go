package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KS2225/AI-report-writer/config"
	"github.com/KS2225/AI-report-writer/internal/agent/core"
	"github.com/KS2225/AI-report-writer/internal/agent/telemetry"
)

// Run wires the pipeline from configuration and serves the HTTP API until the
// listener fails.
func Run(cfg *config.Config) error {
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

	e := newEcho()

	rh := &ResearchHandler{Orch: orch}
	rh.Register(e.Group("/api"))

	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":8085"
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}

// newEcho builds the echo instance with recovery, CORS, a unified JSON error
// handler, and the health and metrics endpoints.
func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
