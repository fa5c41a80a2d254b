package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/KS2225/AI-report-writer/internal/agent/core"
)

// ResearchHandler exposes the research pipeline over HTTP. Each request runs
// the full pipeline synchronously; in-flight runs can be observed through the
// runs endpoint while they execute.
type ResearchHandler struct {
	Orch *core.Orchestrator
}

type researchRequest struct {
	Query string `json:"query"`
}

type researchResponse struct {
	Summary   string `json:"summary"`
	Report    string `json:"report"`
	FollowUps string `json:"follow_ups"`
	Failed    bool   `json:"failed"`
}

// Register mounts the research routes on the given group.
func (h *ResearchHandler) Register(g *echo.Group) {
	g.POST("/research", h.research)
	g.GET("/research/runs", h.activeRuns)
	g.GET("/research/runs/:id", h.runStatus)
}

func (h *ResearchHandler) research(c echo.Context) error {
	var req researchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result := h.Orch.Run(c.Request().Context(), req.Query, nil)

	// Pipeline failures are part of the result contract, not transport
	// errors: the caller always gets 200 with the marked message.
	return c.JSON(http.StatusOK, researchResponse{
		Summary:   result.Summary,
		Report:    result.Report,
		FollowUps: result.FollowUps,
		Failed:    result.Failed,
	})
}

func (h *ResearchHandler) activeRuns(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Orch.ActiveRuns())
}

func (h *ResearchHandler) runStatus(c echo.Context) error {
	status, ok := h.Orch.Status(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "run not found")
	}
	return c.JSON(http.StatusOK, status)
}
