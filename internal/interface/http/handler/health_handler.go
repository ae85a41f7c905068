package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/interface/http/response"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	store repository.Pinger
}

func NewHealthHandler(store repository.Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health проверяет доступность хранилища.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"status": "ok"})
}
