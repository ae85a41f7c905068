package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
)

type BidRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error)
	FindByGigID(ctx context.Context, gigID uuid.UUID) ([]*entity.Bid, error)
	FindByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*entity.Bid, error)
}

// BidTxRepository доступен только внутри транзакции.
type BidTxRepository interface {
	// Create возвращает ErrDuplicateBid при нарушении уникальности (gig_id, freelancer_id).
	Create(ctx context.Context, bid *entity.Bid) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error)
	UpdateStatus(ctx context.Context, bid *entity.Bid) error
	// RejectPendingExcept переводит в rejected все ожидающие отклики заказа, кроме exceptID.
	RejectPendingExcept(ctx context.Context, gigID, exceptID uuid.UUID) (int64, error)
}
