package hire

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/logger"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/sirupsen/logrus"
)

// CacheInvalidator сбрасывает выдачу открытых заказов после найма.
type CacheInvalidator interface {
	Invalidate()
}

type Result struct {
	Bid       *entity.Bid
	GigID     uuid.UUID
	GigTitle  string
	GigBudget float64
	GigStatus valueobject.GigStatus
	Rejected  int64
}

type HireUseCase struct {
	transactor repository.Transactor
	timeout    time.Duration
	cache      CacheInvalidator
}

func NewHireUseCase(transactor repository.Transactor, timeout time.Duration, cache CacheInvalidator) *HireUseCase {
	return &HireUseCase{transactor: transactor, timeout: timeout, cache: cache}
}

// Execute нанимает автора отклика bidID.
// В одной транзакции: отклик становится hired, заказ assigned, остальные ожидающие отклики rejected.
// Любая ошибка откатывает все три изменения.
func (uc *HireUseCase) Execute(ctx context.Context, identity entity.Identity, bidID uuid.UUID) (*Result, error) {
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	var result Result
	err := uc.transactor.WithinTransaction(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		bid, err := repos.Bids().FindByID(ctx, bidID)
		if err != nil {
			return err
		}

		gig, err := repos.Gigs().Lock(ctx, bid.GigID, repository.LockUpdate)
		if err != nil {
			return err
		}

		if !gig.IsOwnedBy(identity.UserID) {
			return apperror.ErrNotGigOwner
		}
		if !gig.IsOpen() {
			return apperror.ErrGigNotOpen
		}

		if err := bid.Hire(); err != nil {
			return err
		}
		if err := gig.Assign(); err != nil {
			return err
		}

		if err := repos.Bids().UpdateStatus(ctx, bid); err != nil {
			return err
		}
		if err := repos.Gigs().UpdateStatus(ctx, gig, valueobject.GigStatusOpen); err != nil {
			return err
		}

		rejected, err := repos.Bids().RejectPendingExcept(ctx, gig.ID, bid.ID)
		if err != nil {
			return err
		}

		result = Result{
			Bid:       bid,
			GigID:     gig.ID,
			GigTitle:  gig.Title,
			GigBudget: gig.Budget,
			GigStatus: gig.Status,
			Rejected:  rejected,
		}
		return nil
	})
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"bid_id":  bidID,
			"user_id": identity.UserID,
			"code":    apperror.CodeOf(err),
		}).Warn("найм отменён")
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Invalidate()
	}

	logger.Log.WithFields(logrus.Fields{
		"bid_id":        result.Bid.ID,
		"gig_id":        result.GigID,
		"freelancer_id": result.Bid.FreelancerID,
		"rejected":      result.Rejected,
	}).Info("найм выполнен")

	return &result, nil
}
