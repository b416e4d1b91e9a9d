package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zandres28/imvcrm/internal/api/dto"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/logger"
	"github.com/zandres28/imvcrm/internal/service"
	"github.com/zandres28/imvcrm/internal/types"
)

type OutageHandler struct {
	service service.OutageService
	log     *logger.Logger
}

func NewOutageHandler(service service.OutageService, log *logger.Logger) *OutageHandler {
	return &OutageHandler{service: service, log: log}
}

func (h *OutageHandler) CreateOutage(c *gin.Context) {
	var req dto.CreateOutageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateOutage(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *OutageHandler) GetOutage(c *gin.Context) {
	resp, err := h.service.GetOutage(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *OutageHandler) UpdateOutage(c *gin.Context) {
	var req dto.UpdateOutageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateOutage(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *OutageHandler) CancelOutage(c *gin.Context) {
	resp, err := h.service.CancelOutage(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *OutageHandler) ListOutages(c *gin.Context) {
	var filter types.OutageFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListOutages(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *OutageHandler) GetPendingDiscount(c *gin.Context) {
	var req dto.GetPendingDiscountRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetPendingDiscount(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
