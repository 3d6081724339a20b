package middleware

import (
	"audit_survey_backend/internal/config"
	"audit_survey_backend/internal/model"
	"audit_survey_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const testSecret = "middleware-test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	r := gin.New()
	api := r.Group("/api", AuthMiddleware(cfg))
	api.GET("/me", func(c *gin.Context) {
		util.Success(c, util.GetUserFromContext(c).UserID)
	})
	api.GET("/admin", AdminMiddleware(), func(c *gin.Context) {
		util.Success(c, "ok")
	})
	return r
}

func tokenFor(t *testing.T, id string, roles ...string) string {
	t.Helper()
	u := &model.User{Roles: roles}
	u.ID = id
	tok, err := util.GenerateJWT(u, testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func do(r *gin.Engine, path, header string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()
	dev := tokenFor(t, "user1", "DEVELOPER")

	if code := do(r, "/api/me", ""); code != http.StatusUnauthorized {
		t.Fatalf("missing token: want 401, got %d", code)
	}
	if code := do(r, "/api/me", "Bearer garbage"); code != http.StatusUnauthorized {
		t.Fatalf("bad token: want 401, got %d", code)
	}
	if code := do(r, "/api/me", "Bearer "+dev); code != http.StatusOK {
		t.Fatalf("valid token: want 200, got %d", code)
	}
	if code := do(r, "/api/me?token="+dev, ""); code != http.StatusOK {
		t.Fatalf("query token: want 200, got %d", code)
	}
}

func TestAdminMiddleware(t *testing.T) {
	r := newRouter()
	if code := do(r, "/api/admin", "Bearer "+tokenFor(t, "user1", "DEVELOPER")); code != http.StatusForbidden {
		t.Fatalf("developer: want 403, got %d", code)
	}
	if code := do(r, "/api/admin", "Bearer "+tokenFor(t, "admin", "PROJECT_MANAGER", model.RoleAdmin)); code != http.StatusOK {
		t.Fatalf("admin: want 200, got %d", code)
	}
}
