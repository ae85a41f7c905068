package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/gig-marketplace/internal/validation"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         valueobject.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary публичная часть пользователя, которая подставляется в списки.
type UserSummary struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// Identity описывает аутентифицированного вызывающего. Передаётся в каждый use case явно.
type Identity struct {
	UserID uuid.UUID
	Role   valueobject.Role
}

func NewUser(name, email, passwordHash string, role valueobject.Role) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validation.ValidateName(name); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if !role.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "роль должна быть client или freelancer")
	}

	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Role: u.Role}
}

func (i Identity) Is(role valueobject.Role) bool {
	return i.UserID != uuid.Nil && i.Role == role
}
