package valueobject

import "github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"

type GigStatus string

const (
	GigStatusOpen     GigStatus = "open"
	GigStatusAssigned GigStatus = "assigned"
)

func (s GigStatus) IsValid() bool {
	switch s {
	case GigStatusOpen, GigStatusAssigned:
		return true
	}
	return false
}

// CanTransitionTo разрешает только open -> assigned.
func (s GigStatus) CanTransitionTo(newStatus GigStatus) bool {
	transitions := map[GigStatus][]GigStatus{
		GigStatusOpen:     {GigStatusAssigned},
		GigStatusAssigned: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewGigStatus(status string) (GigStatus, error) {
	s := GigStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус заказа")
	}
	return s, nil
}

type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"
	BidStatusHired    BidStatus = "hired"
	BidStatusRejected BidStatus = "rejected"
)

func (s BidStatus) IsValid() bool {
	switch s {
	case BidStatusPending, BidStatusHired, BidStatusRejected:
		return true
	}
	return false
}

func NewBidStatus(status string) (BidStatus, error) {
	s := BidStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус отклика")
	}
	return s, nil
}

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleFreelancer:
		return true
	}
	return false
}

func NewRole(role string) (Role, error) {
	r := Role(role)
	if !r.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "роль должна быть client или freelancer")
	}
	return r, nil
}
