package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todo_store/internal/service"

	"github.com/gin-gonic/gin"
)

func newAuthRouter(issuer *service.TokenIssuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/w", RequireToken(issuer), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(SubjectKey))
	})
	return r
}

func TestRequireTokenDisabled(t *testing.T) {
	r := newAuthRouter(nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/w", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected open access, got %d", rec.Code)
	}
}

func TestRequireToken(t *testing.T) {
	issuer := service.NewTokenIssuer("secret", time.Hour)
	r := newAuthRouter(issuer)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/w", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401 got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/w", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401 got %d", rec.Code)
	}

	token, err := issuer.Generate("admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/w", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "admin" {
		t.Fatalf("valid token: got %d %q", rec.Code, rec.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(""))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://example.test")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://example.test" {
		t.Fatalf("origin not reflected: %v", rec.Header())
	}
}
