package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Witt007/techos-api/models"
	"github.com/Witt007/techos-api/utils"
)

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/stats", AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.MustGet("user_email")})
	})
	return r
}

func TestAuthRequired_NoToken(t *testing.T) {
	w := httptest.NewRecorder()
	newProtectedRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequired_InvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "unit-test-secret")

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.AddCookie(&http.Cookie{Name: "admin_token", Value: "not.a.token"})
	w := httptest.NewRecorder()
	newProtectedRouter().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthRequired_ValidCookie(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "unit-test-secret")

	token, err := utils.GenerateJWT(&models.AdminUser{ID: 1, Email: "admin@example.com"})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.AddCookie(&http.Cookie{Name: "admin_token", Value: token})
	w := httptest.NewRecorder()
	newProtectedRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}

func TestAuthRequired_BearerHeader(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "unit-test-secret")

	token, err := utils.GenerateJWT(&models.AdminUser{ID: 1, Email: "admin@example.com"})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newProtectedRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}
