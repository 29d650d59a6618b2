package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/locus/auth"
	apperrors "github.com/kbukum/locus/errors"
)

// ClaimsKey is the gin context key holding the verified *auth.Claims.
const ClaimsKey = "locus.claims"

// TokenVerifier checks a bearer token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Auth rejects requests without a valid bearer token. Verified claims are
// stored under ClaimsKey.
func Auth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, apperrors.Unauthorized("authorization header required"))
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abort(c, apperrors.Unauthorized("expected a bearer token"))
			return
		}
		claims, err := v.Verify(token)
		if err != nil {
			abort(c, apperrors.Unauthorized("invalid token"))
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireScope rejects requests whose verified token lacks scope. It must
// run after Auth.
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get(ClaimsKey)
		claims, ok := v.(*auth.Claims)
		if !ok {
			abort(c, apperrors.Unauthorized("no verified token"))
			return
		}
		if !claims.HasScope(scope) {
			abort(c, apperrors.Forbidden(scope))
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
}
