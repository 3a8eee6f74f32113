// Package http provides HTTP handlers for verification record ingestion and search.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/idshield/verification/internal/errors"
	"github.com/idshield/verification/internal/httputil"
	"github.com/idshield/verification/internal/verification/http/dto"
	verificationUseCase "github.com/idshield/verification/internal/verification/usecase"
	customValidation "github.com/idshield/verification/internal/validation"
)

// VerificationHandler handles HTTP requests for verification record operations.
type VerificationHandler struct {
	verificationUseCase verificationUseCase.VerificationUseCase
	logger              *slog.Logger
}

// NewVerificationHandler creates a new verification handler with required dependencies.
func NewVerificationHandler(
	useCase verificationUseCase.VerificationUseCase,
	logger *slog.Logger,
) *VerificationHandler {
	return &VerificationHandler{
		verificationUseCase: useCase,
		logger:              logger,
	}
}

// IngressHandler accepts a client-sealed envelope and stores the record.
// POST /v1/ingress
// Returns 201 Created with the record ID, 409 Conflict when the national ID
// was already ingested, 422 for envelopes that fail to open or validate.
func (h *VerificationHandler) IngressHandler(c *gin.Context) {
	var req dto.IngressRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	envelope, err := req.ToEnvelope()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Call use case
	record, err := h.verificationUseCase.Ingest(c.Request.Context(), envelope)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Return response
	response := dto.MapRecordToIngressResponse(record)
	c.JSON(http.StatusCreated, response)
}

// SearchHandler looks up a record by national ID via the blind index.
// POST /v1/search
// Returns 200 OK with found=false when no record matches; a miss is a valid
// outcome, not an error.
func (h *VerificationHandler) SearchHandler(c *gin.Context) {
	var req dto.SearchRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Call use case
	result, err := h.verificationUseCase.Search(c.Request.Context(), req.NationalID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusOK, dto.NotFoundSearchResponse())
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Return response
	response := dto.MapSearchResultToResponse(result)
	c.JSON(http.StatusOK, response)
}

// PublicKeyHandler returns the RSA public key clients seal envelopes with.
// GET /v1/public-key
func (h *VerificationHandler) PublicKeyHandler(c *gin.Context) {
	publicKey, err := h.verificationUseCase.PublicKeyPEM()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.PublicKeyResponse{
		PublicKey: publicKey,
		KeyType:   "rsa-oaep-sha256",
	})
}

// ListRecordsHandler lists stored records with pagination.
// GET /v1/records?offset=0&limit=50
// Only record metadata is returned; encrypted columns are never exposed.
func (h *VerificationHandler) ListRecordsHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	records, err := h.verificationUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapRecordsToListResponse(records)
	c.JSON(http.StatusOK, response)
}
