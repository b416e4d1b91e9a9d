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

type InstallationHandler struct {
	service service.InstallationService
	billing service.BillingService
	log     *logger.Logger
}

func NewInstallationHandler(
	service service.InstallationService,
	billing service.BillingService,
	log *logger.Logger,
) *InstallationHandler {
	return &InstallationHandler{service: service, billing: billing, log: log}
}

func (h *InstallationHandler) CreateInstallation(c *gin.Context) {
	var req dto.CreateInstallationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateInstallation(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	if req.WithInstallationFee {
		if _, err := h.billing.GenerateInstallationStatement(c.Request.Context(), dto.GenerateInstallationStatementRequest{
			InstallationID: resp.ID,
		}); err != nil {
			c.Error(err)
			return
		}
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *InstallationHandler) GetInstallation(c *gin.Context) {
	resp, err := h.service.GetInstallation(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *InstallationHandler) UpdateInstallation(c *gin.Context) {
	var req dto.UpdateInstallationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateInstallation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *InstallationHandler) ListInstallations(c *gin.Context) {
	var filter types.QueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListInstallations(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *InstallationHandler) SuspendInstallation(c *gin.Context) {
	resp, err := h.service.SuspendInstallation(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *InstallationHandler) ResumeInstallation(c *gin.Context) {
	resp, err := h.service.ResumeInstallation(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *InstallationHandler) CancelInstallation(c *gin.Context) {
	var req dto.CancelInstallationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CancelInstallation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
