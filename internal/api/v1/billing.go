package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zandres28/imvcrm/internal/api/dto"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/logger"
	"github.com/zandres28/imvcrm/internal/service"
)

type BillingHandler struct {
	service service.BillingService
	log     *logger.Logger
}

func NewBillingHandler(service service.BillingService, log *logger.Logger) *BillingHandler {
	return &BillingHandler{service: service, log: log}
}

func (h *BillingHandler) GenerateStatement(c *gin.Context) {
	var req dto.GenerateStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GenerateStatement(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *BillingHandler) GenerateInstallationStatement(c *gin.Context) {
	var req dto.GenerateInstallationStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GenerateInstallationStatement(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *BillingHandler) GenerateMonthlyStatements(c *gin.Context) {
	var req dto.GenerateMonthlyStatementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GenerateMonthlyStatements(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
