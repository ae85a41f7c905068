package gig

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
)

type GetGigUseCase struct {
	gigRepo repository.GigRepository
}

func NewGetGigUseCase(gigRepo repository.GigRepository) *GetGigUseCase {
	return &GetGigUseCase{gigRepo: gigRepo}
}

func (uc *GetGigUseCase) Execute(ctx context.Context, gigID uuid.UUID) (*entity.Gig, error) {
	return uc.gigRepo.FindByID(ctx, gigID)
}
