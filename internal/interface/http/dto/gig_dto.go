package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
)

type CreateGigRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Budget      *float64 `json:"budget" binding:"required"`
}

type GigResponse struct {
	ID          uuid.UUID            `json:"id"`
	OwnerID     uuid.UUID            `json:"owner_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Budget      float64              `json:"budget"`
	Status      string               `json:"status"`
	Owner       *UserSummaryResponse `json:"owner,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type GigSummaryResponse struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Budget float64   `json:"budget"`
	Status string    `json:"status"`
}

func ToGigResponse(gig *entity.Gig) GigResponse {
	return GigResponse{
		ID:          gig.ID,
		OwnerID:     gig.OwnerID,
		Title:       gig.Title,
		Description: gig.Description,
		Budget:      gig.Budget,
		Status:      string(gig.Status),
		Owner:       toUserSummary(gig.Owner),
		CreatedAt:   gig.CreatedAt,
		UpdatedAt:   gig.UpdatedAt,
	}
}

func ToGigResponses(gigs []*entity.Gig) []GigResponse {
	responses := make([]GigResponse, 0, len(gigs))
	for _, gig := range gigs {
		responses = append(responses, ToGigResponse(gig))
	}
	return responses
}
