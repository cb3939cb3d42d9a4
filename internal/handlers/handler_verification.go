package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hagglund/bokforing_backend/internal/apperrors"
	"github.com/hagglund/bokforing_backend/internal/core/domain"
	portssvc "github.com/hagglund/bokforing_backend/internal/core/ports/services"
	"github.com/hagglund/bokforing_backend/internal/core/services"
	"github.com/hagglund/bokforing_backend/internal/dto"
	"github.com/hagglund/bokforing_backend/internal/middleware"
	"github.com/hagglund/bokforing_backend/internal/utils/accounting"
)

// verificationHandler handles HTTP requests related to verifications.
type verificationHandler struct {
	verificationService portssvc.VerificationSvc
}

func newVerificationHandler(verificationService portssvc.VerificationSvc) *verificationHandler {
	return &verificationHandler{verificationService: verificationService}
}

// createVerification godoc
// @Summary Record a business event as a verification
// @Description Derives the balanced ledger entries from the event and stores the verification
// @Tags verifications
// @Accept  json
// @Produce  json
// @Param   verification body dto.CreateVerificationRequest true "Business event"
// @Success 201 {object} dto.VerificationResponse "The created verification"
// @Failure 400 {object} map[string]interface{} "Invalid request or validation violations"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create verification"
// @Router /verifications [post]
func (h *verificationHandler) createVerification(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createVerification", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	verification, err := h.verificationService.CreateVerification(c.Request.Context(), userID, req)
	if err != nil {
		respondVerificationError(c, logger, err, "Failed to create verification")
		return
	}

	logger.Info("Verification created", slog.String("verification_id", verification.VerificationID))
	c.JSON(http.StatusCreated, dto.ToVerificationResponse(verification))
}

// getVerification godoc
// @Summary Get a verification with its ledger entries
// @Tags verifications
// @Produce  json
// @Param   verificationID path string true "Verification ID"
// @Success 200 {object} dto.VerificationResponse
// @Failure 404 {object} map[string]string "Verification not found"
// @Router /verifications/{verificationID} [get]
func (h *verificationHandler) getVerification(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	verificationID := c.Param("verificationID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	verification, err := h.verificationService.GetVerificationByID(c.Request.Context(), userID, verificationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Verification not found"})
			return
		}
		logger.Error("Failed to get verification", slog.String("error", err.Error()), slog.String("verification_id", verificationID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve verification"})
		return
	}

	c.JSON(http.StatusOK, dto.ToVerificationResponse(verification))
}

// listVerifications godoc
// @Summary List the verifications of a fiscal year
// @Tags verifications
// @Produce  json
// @Param   fiscalYearID query string true "Fiscal year ID"
// @Success 200 {object} dto.ListVerificationsResponse
// @Router /verifications [get]
func (h *verificationHandler) listVerifications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fiscalYearID := c.Query("fiscalYearID")
	if fiscalYearID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fiscalYearID query parameter is required"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	verifications, err := h.verificationService.ListVerifications(c.Request.Context(), userID, fiscalYearID)
	if err != nil {
		logger.Error("Failed to list verifications", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list verifications"})
		return
	}

	resp := dto.ListVerificationsResponse{Verifications: make([]dto.VerificationResponse, len(verifications))}
	for i := range verifications {
		resp.Verifications[i] = dto.ToVerificationResponse(&verifications[i])
	}
	c.JSON(http.StatusOK, resp)
}

// replaceTransactions godoc
// @Summary Replace a verification's ledger entries
// @Description Re-derives the entry list from a new business event and swaps it wholesale
// @Tags verifications
// @Accept  json
// @Produce  json
// @Param   verificationID path string true "Verification ID"
// @Param   event body dto.ReplaceTransactionsRequest true "New business event"
// @Success 200 {object} dto.VerificationResponse
// @Failure 400 {object} map[string]interface{} "Invalid request or validation violations"
// @Failure 404 {object} map[string]string "Verification not found"
// @Router /verifications/{verificationID}/transactions [put]
func (h *verificationHandler) replaceTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	verificationID := c.Param("verificationID")

	var req dto.ReplaceTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for replaceTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	verification, err := h.verificationService.ReplaceTransactions(c.Request.Context(), userID, verificationID, req)
	if err != nil {
		respondVerificationError(c, logger, err, "Failed to replace transactions")
		return
	}

	logger.Info("Verification transactions replaced", slog.String("verification_id", verificationID))
	c.JSON(http.StatusOK, dto.ToVerificationResponse(verification))
}

// deleteVerification godoc
// @Summary Delete a verification
// @Tags verifications
// @Param   verificationID path string true "Verification ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Verification not found"
// @Router /verifications/{verificationID} [delete]
func (h *verificationHandler) deleteVerification(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	verificationID := c.Param("verificationID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.verificationService.DeleteVerification(c.Request.Context(), userID, verificationID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Verification not found"})
			return
		}
		logger.Error("Failed to delete verification", slog.String("error", err.Error()), slog.String("verification_id", verificationID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete verification"})
		return
	}

	c.Status(http.StatusNoContent)
}

// respondVerificationError maps service errors from verification writes to
// HTTP responses. Structural violations are returned as a list so the client
// sees all problems in one round-trip.
func respondVerificationError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var validationErr *services.ValidationFailedError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "violations": validationErr.Violations})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, domain.ErrExchangeRateNotSet),
		errors.Is(err, domain.ErrExchangeRateNotPositive),
		errors.Is(err, domain.ErrCurrenciesNotComparable),
		errors.Is(err, accounting.ErrVATPercentageNotSet):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
