package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kiylo/backend/internal/interfaces/http/dto"
)

// RequireAnyRole rejects requests whose token carries none of the given
// roles. Must run after JWTAuth.
func RequireAnyRole(roles ...string) gin.HandlerFunc {
	required := make(map[string]bool, len(roles))
	for _, r := range roles {
		required[r] = true
	}

	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}

		for _, role := range claims.Roles {
			if required[role] {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponse(dto.ErrCodeForbidden, "Insufficient permissions", GetRequestID(c)))
	}
}
