package gig

import (
	"context"

	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/logger"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/sirupsen/logrus"
)

type CreateGigInput struct {
	Title       string
	Description string
	Budget      float64
}

type CreateGigUseCase struct {
	gigRepo repository.GigRepository
	cache   OpenGigsCache
}

func NewCreateGigUseCase(gigRepo repository.GigRepository, cache OpenGigsCache) *CreateGigUseCase {
	return &CreateGigUseCase{gigRepo: gigRepo, cache: cacheOrNoop(cache)}
}

func (uc *CreateGigUseCase) Execute(ctx context.Context, identity entity.Identity, input CreateGigInput) (*entity.Gig, error) {
	if !identity.Is(valueobject.RoleClient) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "размещать заказы могут только заказчики")
	}

	gig, err := entity.NewGig(identity.UserID, input.Title, input.Description, input.Budget)
	if err != nil {
		return nil, err
	}

	if err := uc.gigRepo.Create(ctx, gig); err != nil {
		return nil, err
	}
	uc.cache.Invalidate()

	logger.Log.WithFields(logrus.Fields{
		"gig_id":   gig.ID,
		"owner_id": gig.OwnerID,
	}).Info("заказ создан")

	return gig, nil
}
