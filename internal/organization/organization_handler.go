package organization

import (
	"net/http"

	organizationerrors "go-userhub/internal/organization/errors"
	"go-userhub/internal/shared/apperror"
	"go-userhub/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("organization.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("organization.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("organization request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create organization validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetMe(c *gin.Context) {
	organizationID := c.GetString("organization_id")
	if organizationID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Organization ID not found in context", nil)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), organizationID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	organizationID := c.GetString("organization_id")
	if organizationID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Organization ID not found in context", nil)
		return
	}

	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Update(c.Request.Context(), organizationID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpsertLocation(c *gin.Context) {
	organizationID := c.GetString("organization_id")
	if organizationID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Organization ID not found in context", nil)
		return
	}

	var req UpsertOfficeLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	if err := h.service.UpsertLocation(c.Request.Context(), organizationID, req); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListLocations(c *gin.Context) {
	organizationID := c.GetString("organization_id")
	if organizationID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Organization ID not found in context", nil)
		return
	}

	result, err := h.service.ListLocations(c.Request.Context(), organizationID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) DeleteLocation(c *gin.Context) {
	organizationID := c.GetString("organization_id")
	if organizationID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Organization ID not found in context", nil)
		return
	}

	name := c.Param("name")
	if name == "" {
		h.writeServiceError(c, organizationerrors.ErrMissingRequiredFields)
		return
	}

	if err := h.service.DeleteLocation(c.Request.Context(), organizationID, name); err != nil {
		h.logger.Error("failed to delete office location", zap.Error(err))
		h.writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
