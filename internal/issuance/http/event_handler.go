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

// EventHandler handles HTTP requests for event logging.
type EventHandler struct {
	eventUseCase issuanceUseCase.EventUseCase
	logger       *slog.Logger
}

// NewEventHandler creates a new event handler with required dependencies.
func NewEventHandler(eventUseCase issuanceUseCase.EventUseCase, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		eventUseCase: eventUseCase,
		logger:       logger,
	}
}

// CreateHandler logs an event for an existing organizer. New events are unapproved.
// POST /v1/events - Returns 201 Created, 404 if the organizer is unknown.
func (h *EventHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateEventRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input, err := req.ToDomain()
	if err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	event, err := h.eventUseCase.Create(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapEventToResponse(event))
}

// GetHandler retrieves an event by reference.
// GET /v1/events/:reference_id - Returns 200 OK.
func (h *EventHandler) GetHandler(c *gin.Context) {
	event, err := h.eventUseCase.Get(c.Request.Context(), c.Param("reference_id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEventToResponse(event))
}
