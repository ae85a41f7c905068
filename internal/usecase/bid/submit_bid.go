package bid

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/logger"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/sirupsen/logrus"
)

type SubmitBidInput struct {
	GigID     uuid.UUID
	Message   string
	BidAmount float64
}

type SubmitBidUseCase struct {
	transactor repository.Transactor
}

func NewSubmitBidUseCase(transactor repository.Transactor) *SubmitBidUseCase {
	return &SubmitBidUseCase{transactor: transactor}
}

// Execute создаёт отклик в статусе pending.
// Заказ читается под разделяемой блокировкой, поэтому параллельный найм не пропустит новый отклик.
func (uc *SubmitBidUseCase) Execute(ctx context.Context, identity entity.Identity, input SubmitBidInput) (*entity.Bid, error) {
	if !identity.Is(valueobject.RoleFreelancer) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "откликаться могут только фрилансеры")
	}

	bid, err := entity.NewBid(input.GigID, identity.UserID, input.Message, input.BidAmount)
	if err != nil {
		return nil, err
	}

	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		gig, err := repos.Gigs().Lock(ctx, input.GigID, repository.LockShare)
		if err != nil {
			return err
		}
		if !gig.IsOpen() {
			return apperror.ErrGigClosedForBids
		}
		if gig.IsOwnedBy(identity.UserID) {
			return apperror.ErrOwnGig
		}
		return repos.Bids().Create(ctx, bid)
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"bid_id":        bid.ID,
		"gig_id":        bid.GigID,
		"freelancer_id": bid.FreelancerID,
	}).Info("отклик создан")

	return bid, nil
}
