package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/certify/internal/httputil"
	"github.com/allisson/certify/internal/issuance/http/dto"
	issuanceUseCase "github.com/allisson/certify/internal/issuance/usecase"
)

// StatsHandler serves cached aggregate issuance counts.
type StatsHandler struct {
	statsUseCase issuanceUseCase.StatsUseCase
	logger       *slog.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsUseCase issuanceUseCase.StatsUseCase, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{statsUseCase: statsUseCase, logger: logger}
}

// GetHandler returns aggregate counts.
// GET /v1/stats - Returns 200 OK.
func (h *StatsHandler) GetHandler(c *gin.Context) {
	stats, err := h.statsUseCase.Get(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStatsToResponse(stats))
}
