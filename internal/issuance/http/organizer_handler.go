// Package http provides HTTP handlers for organizer, event and certificate issuance.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/certify/internal/httputil"
	"github.com/allisson/certify/internal/issuance/http/dto"
	issuanceUseCase "github.com/allisson/certify/internal/issuance/usecase"
	customValidation "github.com/allisson/certify/internal/validation"
)

// OrganizerHandler handles HTTP requests for organizer registration.
type OrganizerHandler struct {
	organizerUseCase issuanceUseCase.OrganizerUseCase
	logger           *slog.Logger
}

// NewOrganizerHandler creates a new organizer handler with required dependencies.
func NewOrganizerHandler(organizerUseCase issuanceUseCase.OrganizerUseCase, logger *slog.Logger) *OrganizerHandler {
	return &OrganizerHandler{
		organizerUseCase: organizerUseCase,
		logger:           logger,
	}
}

// CreateHandler registers an organizer under the next sequential reference.
// POST /v1/organizers - Returns 201 Created.
func (h *OrganizerHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateOrganizerRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	organizer, err := h.organizerUseCase.Create(c.Request.Context(), req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapOrganizerToResponse(organizer))
}

// GetHandler retrieves an organizer by reference.
// GET /v1/organizers/:reference_id - Returns 200 OK.
func (h *OrganizerHandler) GetHandler(c *gin.Context) {
	organizer, err := h.organizerUseCase.Get(c.Request.Context(), c.Param("reference_id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrganizerToResponse(organizer))
}
