package rbac

import (
	"log"
	"net/http"
	"strings"

	"go-userhub/internal/domain"
	"go-userhub/internal/membership"
	"go-userhub/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Enforce(c *gin.Context) {
	var req domain.EnforceRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.OrganizationID = strings.TrimSpace(req.OrganizationID)
	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)

	if req.UserID == "" || req.OrganizationID == "" || req.Resource == "" || req.Action == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "user_id, organization_id, resource, and action are required", nil)
		return
	}

	allowed, err := h.service.Enforce(req)
	if err != nil {
		log.Println("error", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, domain.EnforceResponse{
		Allowed: allowed,
	}, nil)
}

// ListRoles mengembalikan katalog role organisasi beserta permission-nya.
// Role diturunkan dari posisi, jadi katalognya statis.
func (h *Handler) ListRoles(c *gin.Context) {
	var roles []domain.RoleResponse
	for _, role := range membership.AllRoles() {
		roles = append(roles, domain.RoleResponse{
			Name:        role,
			Permissions: membership.PermissionsForRole(role),
		})
	}

	response.Success(c, http.StatusOK, roles, nil)
}

// ListPermissions mengembalikan katalog permission beserta resource/action
// yang di-enforce.
func (h *Handler) ListPermissions(c *gin.Context) {
	var perms []domain.PermissionResponse
	for name, pairs := range permissionPolicies {
		for _, pair := range pairs {
			perms = append(perms, domain.PermissionResponse{
				Name:     name,
				Resource: pair[0],
				Action:   pair[1],
			})
		}
	}

	response.Success(c, http.StatusOK, perms, nil)
}
