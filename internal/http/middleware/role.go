package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/interface/http/response"
)

// RequireRoles пропускает только пользователей с одной из ролей. Ставится после AuthMiddleware.
func RequireRoles(allowed ...valueobject.Role) gin.HandlerFunc {
	allowedSet := make(map[valueobject.Role]bool, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = true
	}

	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			response.Unauthorized(c, "требуется авторизация")
			return
		}

		if !allowedSet[identity.Role] {
			response.Forbidden(c, "недостаточно прав для этого действия")
			return
		}

		c.Next()
	}
}
