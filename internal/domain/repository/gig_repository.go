package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
)

type GigRepository interface {
	Create(ctx context.Context, gig *entity.Gig) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error)
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entity.Gig, error)
	ListOpen(ctx context.Context, filter GigFilter) ([]*entity.Gig, error)
}

type GigFilter struct {
	// Terms: слова поиска; заказ подходит, если любое слово встречается в названии или описании.
	Terms []string
}

// GigTxRepository доступен только внутри транзакции.
type GigTxRepository interface {
	// Lock читает заказ с блокировкой строки до конца транзакции.
	Lock(ctx context.Context, id uuid.UUID, mode LockMode) (*entity.Gig, error)
	// UpdateStatus меняет статус, только если текущий статус равен from; иначе ErrGigNotOpen.
	UpdateStatus(ctx context.Context, gig *entity.Gig, from valueobject.GigStatus) error
}
