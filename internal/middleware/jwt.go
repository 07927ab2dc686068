package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Dipanshu-5/EdPlan/internal/models"
	appErrors "github.com/Dipanshu-5/EdPlan/pkg/errors"
	"github.com/Dipanshu-5/EdPlan/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

type tokenValidator interface {
	ValidateToken(tokenString string) (*models.JWTClaims, error)
}

// Identity attaches the caller's claims when a bearer token is sent. Requests without an
// Authorization header pass through anonymously; a header that does not verify is refused.
func Identity(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || auth == nil {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// Authenticated refuses requests that Identity left anonymous.
func Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ContextUserKey); !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
