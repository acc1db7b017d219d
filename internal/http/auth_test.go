package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siwes-backend-go/internal/models"
)

func requestAs(identity Identity) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	return r.WithContext(context.WithValue(r.Context(), ctxIdentity, identity))
}

func TestRequireAnyRoleAllows(t *testing.T) {
	called := false
	handler := RequireAnyRole(models.RoleAdmin, models.RoleAcademicSupervisor)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(Identity{ID: "u1", Role: models.RoleAcademicSupervisor}))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAnyRoleDenies(t *testing.T) {
	handler := RequireAnyRole(models.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not run")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(Identity{ID: "u1", Role: models.RoleStudent}))

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body forbiddenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Access denied. Insufficient permissions.", body.Error)
	assert.Equal(t, []models.Role{models.RoleAdmin}, body.RequiredRoles)
	assert.Equal(t, models.RoleStudent, body.UserRole)
}

func TestCurrentIdentityMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, Identity{}, CurrentIdentity(r))
}
