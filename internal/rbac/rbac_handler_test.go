package rbac

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-userhub/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct{}

func (s *stubService) LoadOrganizationPolicy(organizationID string) error {
	return nil
}

func (s *stubService) Enforce(req domain.EnforceRequest) (bool, error) {
	if req.Resource == "member" && req.Action == "read" {
		return true, nil
	}
	return false, nil
}

func newTestRouter(handler *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/rbac/enforce", handler.Enforce)
	router.GET("/rbac/roles", handler.ListRoles)
	router.GET("/rbac/permissions", handler.ListPermissions)
	return router
}

func TestHandler_Enforce(t *testing.T) {
	router := newTestRouter(NewHandler(&stubService{}))

	t.Run("allowed", func(t *testing.T) {
		body, _ := json.Marshal(domain.EnforceRequest{
			UserID:         "user-1",
			OrganizationID: "org-1",
			Resource:       "member",
			Action:         "read",
		})

		req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Ok   bool                   `json:"ok"`
			Data domain.EnforceResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Ok)
		assert.True(t, resp.Data.Allowed)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBufferString(`{"user_id":"  "}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_ListRoles(t *testing.T) {
	router := newTestRouter(NewHandler(&stubService{}))

	req, _ := http.NewRequest(http.MethodGet, "/rbac/roles", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []domain.RoleResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	names := make([]string, 0, len(resp.Data))
	for _, role := range resp.Data {
		names = append(names, role.Name)
		assert.NotEmpty(t, role.Permissions, role.Name)
	}
	assert.Contains(t, names, "organization-member")
	assert.Contains(t, names, "organization-executive")
}

func TestHandler_ListPermissions(t *testing.T) {
	router := newTestRouter(NewHandler(&stubService{}))

	req, _ := http.NewRequest(http.MethodGet, "/rbac/permissions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []domain.PermissionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data)

	found := false
	for _, perm := range resp.Data {
		if perm.Name == "organization.members.view" {
			found = true
			assert.Equal(t, "member", perm.Resource)
			assert.Equal(t, "read", perm.Action)
		}
	}
	assert.True(t, found)
}
