package bid

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
)

type ListBidsForGigUseCase struct {
	gigRepo repository.GigRepository
	bidRepo repository.BidRepository
}

func NewListBidsForGigUseCase(gigRepo repository.GigRepository, bidRepo repository.BidRepository) *ListBidsForGigUseCase {
	return &ListBidsForGigUseCase{gigRepo: gigRepo, bidRepo: bidRepo}
}

func (uc *ListBidsForGigUseCase) Execute(ctx context.Context, identity entity.Identity, gigID uuid.UUID) ([]*entity.Bid, error) {
	gig, err := uc.gigRepo.FindByID(ctx, gigID)
	if err != nil {
		return nil, err
	}

	if !gig.IsOwnedBy(identity.UserID) {
		return nil, apperror.ErrNotGigOwner
	}

	return uc.bidRepo.FindByGigID(ctx, gigID)
}

type ListBidsForFreelancerUseCase struct {
	bidRepo repository.BidRepository
}

func NewListBidsForFreelancerUseCase(bidRepo repository.BidRepository) *ListBidsForFreelancerUseCase {
	return &ListBidsForFreelancerUseCase{bidRepo: bidRepo}
}

func (uc *ListBidsForFreelancerUseCase) Execute(ctx context.Context, identity entity.Identity) ([]*entity.Bid, error) {
	if identity.UserID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}
	return uc.bidRepo.FindByFreelancerID(ctx, identity.UserID)
}
