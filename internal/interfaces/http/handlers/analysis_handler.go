// Package handlers holds the HTTP request handlers.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/compound-analyzer/internal/application/analysis"
	"github.com/turtacn/compound-analyzer/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/compound-analyzer/pkg/errors"
	"github.com/turtacn/compound-analyzer/pkg/types/compound"
)

// AnalyzeRequest is the body of POST /api/v1/compounds/analyze.  Callers
// supply either the compounds array or the parallel smiles/compound_ids
// lists, not both.
type AnalyzeRequest struct {
	Compounds   []compound.Input `json:"compounds,omitempty"`
	SMILES      []string         `json:"smiles,omitempty"`
	CompoundIDs []string         `json:"compound_ids,omitempty"`
}

// AnalysisHandler serves the compound analysis endpoints.
type AnalysisHandler struct {
	service *analysis.Service
	logger  logging.Logger
}

// NewAnalysisHandler builds an AnalysisHandler.
func NewAnalysisHandler(service *analysis.Service, log logging.Logger) *AnalysisHandler {
	return &AnalysisHandler{service: service, logger: log.Named("analysis-handler")}
}

// RegisterRoutes attaches the analysis routes to the v1 group.
func (h *AnalysisHandler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.POST("/compounds/analyze", h.Analyze)
	v1.GET("/analyses", h.List)
	v1.GET("/analyses/:id", h.Get)
	v1.DELETE("/analyses/:id", h.Delete)
}

// Analyze evaluates a batch of compounds.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.InvalidParam("malformed request body").WithCause(err))
		return
	}
	if len(req.Compounds) > 0 && len(req.SMILES) > 0 {
		writeError(c, errors.InvalidParam("provide either compounds or smiles, not both"))
		return
	}
	if len(req.Compounds) == 0 && len(req.SMILES) == 0 {
		writeError(c, errors.InvalidParam("no compounds provided"))
		return
	}

	var (
		result *compound.Analysis
		err    error
	)
	if len(req.Compounds) > 0 {
		result, err = h.service.Analyze(c.Request.Context(), req.Compounds)
	} else {
		result, err = h.service.AnalyzeLists(c.Request.Context(), req.SMILES, req.CompoundIDs)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get returns one persisted analysis.
func (h *AnalysisHandler) Get(c *gin.Context) {
	a, err := h.service.GetAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Delete removes one persisted analysis.
func (h *AnalysisHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteAnalysis(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List returns recent persisted analyses without result payloads.
func (h *AnalysisHandler) List(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 200 {
			writeError(c, errors.InvalidParam("limit must be an integer between 1 and 200"))
			return
		}
		limit = parsed
	}
	analyses, err := h.service.ListAnalyses(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}

// writeError renders the shared error envelope, mapping the application
// error code to an HTTP status.
func writeError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	c.AbortWithStatusJSON(errors.HTTPStatusForCode(code), gin.H{
		"error": gin.H{
			"code":    code.String(),
			"message": errors.GetMessage(err),
		},
	})
}
