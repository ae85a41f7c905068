package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/gig-marketplace/internal/validation"
)

type Bid struct {
	ID           uuid.UUID
	GigID        uuid.UUID
	FreelancerID uuid.UUID
	Message      string
	BidAmount    float64
	Status       valueobject.BidStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Freelancer *UserSummary
	Gig        *GigSummary
}

func NewBid(gigID, freelancerID uuid.UUID, message string, bidAmount float64) (*Bid, error) {
	message = strings.TrimSpace(message)
	if err := validation.ValidateBidMessage(message); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	amount, err := valueobject.NewMoney(bidAmount, "сумма отклика")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Bid{
		ID:           uuid.New(),
		GigID:        gigID,
		FreelancerID: freelancerID,
		Message:      message,
		BidAmount:    amount.Amount,
		Status:       valueobject.BidStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (b *Bid) Hire() error {
	if !b.IsPending() {
		return apperror.ErrBidNotPending
	}
	b.Status = valueobject.BidStatusHired
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// Reject отклоняет ожидающий отклик; hired и rejected менять нельзя.
func (b *Bid) Reject() error {
	if !b.IsPending() {
		return apperror.ErrBidNotPending
	}
	b.Status = valueobject.BidStatusRejected
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (b *Bid) IsPending() bool {
	return b.Status == valueobject.BidStatusPending
}
