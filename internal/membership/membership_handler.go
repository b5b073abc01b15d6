package membership

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"go-userhub/internal/shared/apperror"
	"go-userhub/internal/shared/response"
	"go-userhub/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("membership.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("membership.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("membership request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Join(c *gin.Context) {
	organizationID := c.GetString("organization_id")
	h.logger.Debug("http join organization", zap.String("organization_id", organizationID))

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http join validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Join(c.Request.Context(), organizationID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()
	organizationID := c.GetString("organization_id")
	h.logger.Debug("http get all members", zap.String("organization_id", organizationID))

	filter := user.MemberFilter{
		Position:     strings.TrimSpace(c.Query("position")),
		WorkLocation: strings.TrimSpace(c.Query("work_location")),
		Status:       strings.TrimSpace(c.Query("status")),
		AdminsOnly:   c.Query("admins") == "true",
		ManagersOnly: c.Query("managers") == "true",
		Search:       strings.TrimSpace(c.Query("q")),
	}

	resp, err := h.service.GetMembers(ctx, organizationID, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	sortBy := strings.ToLower(strings.TrimSpace(c.DefaultQuery("sort_by", "name")))
	sortDir := strings.ToLower(strings.TrimSpace(c.DefaultQuery("sort_dir", "asc")))
	if sortDir != "desc" {
		sortDir = "asc"
	}
	sort.Slice(resp, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "email":
			less = strings.ToLower(resp[i].Email) < strings.ToLower(resp[j].Email)
		case "position":
			less = strings.ToLower(resp[i].Position) < strings.ToLower(resp[j].Position)
		case "joined_at":
			less = resp[i].JoinedAt < resp[j].JoinedAt
		default:
			less = strings.ToLower(resp[i].Name) < strings.ToLower(resp[j].Name)
		}
		if sortDir == "desc" {
			return !less
		}
		return less
	})

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	ctx := c.Request.Context()
	targetID := c.Param("id")
	organizationID := c.GetString("organization_id")
	h.logger.Debug("http get member by id",
		zap.String("organization_id", organizationID),
		zap.String("user_id", targetID),
	)

	resp, err := h.service.GetMember(ctx, organizationID, targetID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	organizationID := c.GetString("organization_id")

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update member validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.UpdateMember(ctx, organizationID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdatePosition(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	organizationID := c.GetString("organization_id")

	var req UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update position validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.UpdatePosition(ctx, organizationID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Transfer(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	organizationID := c.GetString("organization_id")

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http transfer validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Transfer(ctx, organizationID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Leave(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	organizationID := c.GetString("organization_id")
	h.logger.Debug("http leave organization",
		zap.String("organization_id", organizationID),
		zap.String("user_id", id),
	)

	if err := h.service.Leave(ctx, organizationID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"left": true}, nil)
}

func (h *Handler) HierarchyPath(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	organizationID := c.GetString("organization_id")

	path, err := h.service.HierarchyPath(ctx, organizationID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, path, nil)
}

func (h *Handler) Subordinates(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	organizationID := c.GetString("organization_id")

	subs, err := h.service.Subordinates(ctx, organizationID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, subs, nil)
}

func (h *Handler) HierarchyTree(c *gin.Context) {
	ctx := c.Request.Context()
	organizationID := c.GetString("organization_id")

	tree, err := h.service.HierarchyTree(ctx, organizationID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, tree, nil)
}
