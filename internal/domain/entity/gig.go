package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/gig-marketplace/internal/validation"
)

type Gig struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	Budget      float64
	Status      valueobject.GigStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Owner *UserSummary
}

type GigSummary struct {
	ID     uuid.UUID
	Title  string
	Budget float64
	Status valueobject.GigStatus
}

func NewGig(ownerID uuid.UUID, title, description string, budget float64) (*Gig, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if err := validation.ValidateGigTitle(title); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateGigDescription(description); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	money, err := valueobject.NewMoney(budget, "бюджет")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Gig{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Budget:      money.Amount,
		Status:      valueobject.GigStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Assign закрывает заказ для найма. Повторный вызов возвращает ErrGigNotOpen.
func (g *Gig) Assign() error {
	if !g.Status.CanTransitionTo(valueobject.GigStatusAssigned) {
		return apperror.ErrGigNotOpen
	}
	g.Status = valueobject.GigStatusAssigned
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (g *Gig) IsOpen() bool {
	return g.Status == valueobject.GigStatusOpen
}

func (g *Gig) IsOwnedBy(userID uuid.UUID) bool {
	return g.OwnerID == userID
}

func (g *Gig) Summary() GigSummary {
	return GigSummary{
		ID:     g.ID,
		Title:  g.Title,
		Budget: g.Budget,
		Status: g.Status,
	}
}
