package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/opencourse/lms-backend/internal/config"
	"github.com/opencourse/lms-backend/internal/model"
	"github.com/opencourse/lms-backend/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type emptyUserStore struct{}

func (emptyUserStore) GetByID(context.Context, string) (*model.User, error) {
	return nil, pgx.ErrNoRows
}
func (emptyUserStore) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, pgx.ErrNoRows
}
func (emptyUserStore) Create(context.Context, *model.User) error { return nil }

func newAuthService(expiry time.Duration) *service.AuthService {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: expiry, BcryptCost: 4}
	return service.NewAuthService(cfg, emptyUserStore{}, nil, zerolog.Nop())
}

func protectedRouter(auth *service.AuthService, teacherOnly bool) *gin.Engine {
	r := gin.New()
	chain := []gin.HandlerFunc{RequireAuth(auth)}
	if teacherOnly {
		chain = append(chain, RequireTeacher())
	}
	chain = append(chain, func(c *gin.Context) {
		claims := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"sub": claims.Subject, "role": claims.Role})
	})
	r.GET("/protected", chain...)
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth_NoHeader(t *testing.T) {
	r := protectedRouter(newAuthService(time.Hour), false)
	rec := get(r, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	r := protectedRouter(newAuthService(time.Hour), false)
	rec := get(r, "Token abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	auth := newAuthService(time.Hour)
	r := protectedRouter(auth, false)

	token, err := auth.GenerateToken(&model.Identity{ID: "u-1", Role: model.RoleStudent})
	require.NoError(t, err)

	rec := get(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "u-1", body["sub"])
	assert.Equal(t, "student", body["role"])
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	expired := newAuthService(-time.Hour)
	token, err := expired.GenerateToken(&model.Identity{ID: "u-1", Role: model.RoleStudent})
	require.NoError(t, err)

	r := protectedRouter(newAuthService(time.Hour), false)
	rec := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireTeacher_StudentForbidden(t *testing.T) {
	auth := newAuthService(time.Hour)
	r := protectedRouter(auth, true)

	token, err := auth.GenerateToken(&model.Identity{ID: "u-1", Role: model.RoleStudent})
	require.NoError(t, err)

	rec := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireTeacher_TeacherAllowed(t *testing.T) {
	auth := newAuthService(time.Hour)
	r := protectedRouter(auth, true)

	token, err := auth.GenerateToken(&model.Identity{ID: "t-1", Role: model.RoleTeacher})
	require.NoError(t, err)

	rec := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
}
