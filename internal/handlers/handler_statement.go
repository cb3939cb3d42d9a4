package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hagglund/bokforing_backend/internal/core/ports/services"
	"github.com/hagglund/bokforing_backend/internal/dto"
	"github.com/hagglund/bokforing_backend/internal/middleware"
)

// statementHandler handles bank-statement imports.
type statementHandler struct {
	importService portssvc.StatementImportSvc
}

func newStatementHandler(importService portssvc.StatementImportSvc) *statementHandler {
	return &statementHandler{importService: importService}
}

// importStatement godoc
// @Summary Import parsed bank-statement lines
// @Description Books each line as a verification; lines whose event is already recorded are reported as duplicates. Lines succeed or fail independently.
// @Tags statements
// @Accept  json
// @Produce  json
// @Param   statement body dto.ImportStatementRequest true "Parsed statement lines"
// @Success 200 {object} dto.ImportStatementResponse "Per-line outcomes"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /statements/import [post]
func (h *statementHandler) importStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ImportStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for importStatement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.importService.ImportStatement(c.Request.Context(), userID, req)
	if err != nil {
		logger.Error("Failed to import statement", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import statement"})
		return
	}

	logger.Info("Statement imported",
		slog.Int("created", resp.Created),
		slog.Int("duplicates", resp.Duplicates),
		slog.Int("failed", resp.Failed),
	)
	c.JSON(http.StatusOK, resp)
}
