package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func signAdminToken(t *testing.T, secret []byte, role string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ops@paylist.test",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	s, err := tok.SignedString(secret)
	require.NoError(t, err)
	return s
}

func TestAdminAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	secret := []byte("admin-secret")

	r := gin.New()
	r.Use(TraceMiddleware(), AdminAuth(secret, zap.NewNop().Sugar()))
	r.GET("/admin/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(AdminSubjectKey))
	})

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signAdminToken(t, []byte("other"), "admin", time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"wrong role", "Bearer " + signAdminToken(t, secret, "creator", time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"expired", "Bearer " + signAdminToken(t, secret, "admin", time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"valid", "Bearer " + signAdminToken(t, secret, "admin", time.Now().Add(time.Hour)), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tc.code, w.Code)
			if tc.code == http.StatusOK {
				require.Equal(t, "ops@paylist.test", w.Body.String())
			}
		})
	}
}

func TestTraceAndRequestLogger_EchoRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware(), RequestLoggerMiddleware(zap.NewNop().Sugar()), AccessLogMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
