package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
	"github.com/noah-isme/college-admin-api/pkg/response"
)

// RequireRoles only lets requests through when the authenticated faculty has one of roles.
func RequireRoles(roles ...models.FacultyRole) gin.HandlerFunc {
	allowed := make(map[models.FacultyRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, permitted := allowed[claims.Role]; !permitted {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "insufficient role"))
			c.Abort()
			return
		}
		c.Next()
	}
}
