package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hagglund/bokforing_backend/internal/apperrors"
	portssvc "github.com/hagglund/bokforing_backend/internal/core/ports/services"
	"github.com/hagglund/bokforing_backend/internal/dto"
	"github.com/hagglund/bokforing_backend/internal/middleware"
)

// fiscalYearHandler handles HTTP requests for fiscal years.
type fiscalYearHandler struct {
	fiscalYearService portssvc.FiscalYearSvc
}

func newFiscalYearHandler(fiscalYearService portssvc.FiscalYearSvc) *fiscalYearHandler {
	return &fiscalYearHandler{fiscalYearService: fiscalYearService}
}

// createFiscalYear godoc
// @Summary Open a new fiscal year
// @Tags fiscal-years
// @Accept  json
// @Produce  json
// @Param   fiscalYear body dto.CreateFiscalYearRequest true "Period"
// @Success 201 {object} dto.FiscalYearResponse
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 409 {object} map[string]string "Period overlaps an existing fiscal year"
// @Router /fiscal-years [post]
func (h *fiscalYearHandler) createFiscalYear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createFiscalYear", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	year, err := h.fiscalYearService.CreateFiscalYear(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create fiscal year", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fiscal year"})
		}
		return
	}

	logger.Info("Fiscal year created", slog.String("fiscal_year_id", year.FiscalYearID))
	c.JSON(http.StatusCreated, dto.ToFiscalYearResponse(year))
}

// listFiscalYears godoc
// @Summary List the user's fiscal years
// @Tags fiscal-years
// @Produce  json
// @Success 200 {object} dto.ListFiscalYearsResponse
// @Router /fiscal-years [get]
func (h *fiscalYearHandler) listFiscalYears(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	years, err := h.fiscalYearService.ListFiscalYears(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list fiscal years", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fiscal years"})
		return
	}

	c.JSON(http.StatusOK, dto.ListFiscalYearsResponse{FiscalYears: dto.ToFiscalYearResponses(years)})
}
