package middleware

import (
	"strings"

	autherrors "github.com/rinov1/WorkWave/internal/auth/errors"
	"github.com/rinov1/WorkWave/internal/auth/token"
	"github.com/rinov1/WorkWave/internal/domain"
	"github.com/rinov1/WorkWave/internal/shared/contextutil"
	"github.com/rinov1/WorkWave/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const (
	ContextAccountID = "account_id"
	ContextRole      = "role"
	ContextIsHR      = "is_hr"
)

type TokenParser interface {
	Parse(raw string, kind token.Kind) (*token.Claims, error)
}

// AuthMiddleware accepts a bearer token or the access_token cookie.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWith(c, autherrors.ErrTokenNotFound)
			return
		}

		claims, err := tokens.Parse(tokenString, token.Access)
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextIsHR, claims.Role == domain.RoleHR)
		c.Request = c.Request.WithContext(contextutil.WithAccountID(c.Request.Context(), claims.AccountID))

		c.Next()
	}
}

// AccountID returns the authenticated account, or 0.
func AccountID(c *gin.Context) int64 {
	return c.GetInt64(ContextAccountID)
}

func Role(c *gin.Context) string {
	return c.GetString(ContextRole)
}

func IsHR(c *gin.Context) bool {
	return c.GetBool(ContextIsHR)
}
