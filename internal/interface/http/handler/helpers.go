package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/http/middleware"
	"github.com/ignatzorin/gig-marketplace/internal/interface/http/response"
)

// requireIdentity достаёт вызывающего из контекста или отвечает 401.
func requireIdentity(c *gin.Context) (entity.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "требуется авторизация")
		return entity.Identity{}, false
	}
	return identity, true
}
