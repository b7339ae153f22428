package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/certify/internal/httputil"
	"github.com/allisson/certify/internal/issuance/http/dto"
	issuanceUseCase "github.com/allisson/certify/internal/issuance/usecase"
	customValidation "github.com/allisson/certify/internal/validation"
)

// CertificateHandler handles HTTP requests for certificate issuance and download.
type CertificateHandler struct {
	certificateUseCase issuanceUseCase.CertificateUseCase
	logger             *slog.Logger
}

// NewCertificateHandler creates a new certificate handler with required dependencies.
func NewCertificateHandler(
	certificateUseCase issuanceUseCase.CertificateUseCase,
	logger *slog.Logger,
) *CertificateHandler {
	return &CertificateHandler{
		certificateUseCase: certificateUseCase,
		logger:             logger,
	}
}

// IssueHandler issues a certificate and returns it with a download token.
// POST /v1/certificates - Returns 201 Created.
// An unknown or unapproved event reference is dropped and reported in warnings.
func (h *CertificateHandler) IssueHandler(c *gin.Context) {
	var req dto.IssueCertificateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	issued, err := h.certificateUseCase.Issue(c.Request.Context(), req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapIssuedCertificateToResponse(issued))
}

// GetHandler retrieves a certificate with a freshly signed download token.
// GET /v1/certificates/:reference_id - Returns 200 OK.
func (h *CertificateHandler) GetHandler(c *gin.Context) {
	issued, err := h.certificateUseCase.Get(c.Request.Context(), c.Param("reference_id"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapIssuedCertificateToResponse(issued))
}

// DownloadHandler returns the certificate artifact when the token authorizes it.
// GET /v1/certificates/download?reference_id=&token=
// Returns 400 when a parameter is missing, 403 for an invalid or expired token.
func (h *CertificateHandler) DownloadHandler(c *gin.Context) {
	referenceID := c.Query("reference_id")
	token := c.Query("token")
	if referenceID == "" || token == "" {
		httputil.HandleBadRequestGin(c, errors.New("reference_id and token are required"), h.logger)
		return
	}

	certificate, err := h.certificateUseCase.Download(c.Request.Context(), referenceID, token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.MapCertificateToResponse(certificate))
}
