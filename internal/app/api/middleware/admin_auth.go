package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fatflowers/paylist/pkg/logctx"
	"github.com/fatflowers/paylist/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const AdminSubjectKey = "admin_subject"

// AdminClaims are the claims accepted on admin bearer tokens.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var errNotAdmin = errors.New("token does not carry the admin role")

// ParseAdminToken validates an HS256 token signed with secret and requires role=admin.
func ParseAdminToken(secret []byte, raw string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.Role != "admin" {
		return nil, errNotAdmin
	}
	return claims, nil
}

// AdminAuth rejects requests without a valid admin bearer token.
func AdminAuth(secret []byte, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, nil))
			return
		}
		claims, err := ParseAdminToken(secret, raw)
		if err != nil {
			logctx.FromGin(c, base).Warnw("admin_auth_rejected", "err", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, nil))
			return
		}
		c.Set(AdminSubjectKey, claims.Subject)
		c.Next()
	}
}
