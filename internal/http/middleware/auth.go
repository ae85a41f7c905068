package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/interface/http/response"
)

// Context ключи для gin.Context.
const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"

	// TokenCookie имя cookie с access токеном.
	TokenCookie = "token"
)

// Authenticator проверяет токен и возвращает личность вызывающего.
type Authenticator interface {
	Authenticate(token string) (entity.Identity, error)
}

// AuthMiddleware читает токен из cookie token или заголовка Authorization: Bearer.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			response.Unauthorized(c, "требуется авторизация")
			return
		}

		identity, err := auth.Authenticate(raw)
		if err != nil {
			response.Unauthorized(c, "токен невалиден")
			return
		}

		c.Set(ContextUserIDKey, identity.UserID)
		c.Set(ContextRoleKey, identity.Role)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// IdentityFrom достаёт личность, положенную AuthMiddleware.
func IdentityFrom(c *gin.Context) (entity.Identity, bool) {
	rawID, ok := c.Get(ContextUserIDKey)
	if !ok {
		return entity.Identity{}, false
	}
	rawRole, ok := c.Get(ContextRoleKey)
	if !ok {
		return entity.Identity{}, false
	}

	identity := entity.Identity{}
	if identity.UserID, ok = rawID.(uuid.UUID); !ok {
		return entity.Identity{}, false
	}
	if identity.Role, ok = rawRole.(valueobject.Role); !ok {
		return entity.Identity{}, false
	}
	return identity, true
}
