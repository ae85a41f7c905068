package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/infrastructure/memory"
	"github.com/ignatzorin/gig-marketplace/internal/logger"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
)

const testSecret = "test-secret-which-is-long-enough-123"

func newTestAuthService() *AuthService {
	logger.Discard()
	s := NewAuthService(memory.New().Users(), NewTokenManager(testSecret, time.Hour))
	s.cost = bcrypt.MinCost
	return s
}

func TestRegister_DefaultsToFreelancer(t *testing.T) {
	s := newTestAuthService()

	res, err := s.Register(context.Background(), RegisterInput{
		Name:     "Анна",
		Email:    "Anna@Example.com",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, valueobject.RoleFreelancer, res.User.Role)
	assert.Equal(t, "anna@example.com", res.User.Email)
	assert.NotEqual(t, "secret123", res.User.PasswordHash)
	assert.NotEmpty(t, res.Token)

	identity, err := s.Authenticate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, identity.UserID)
	assert.Equal(t, valueobject.RoleFreelancer, identity.Role)
}

func TestRegister_Validation(t *testing.T) {
	s := newTestAuthService()

	tests := []struct {
		name string
		in   RegisterInput
		code apperror.ErrorCode
	}{
		{"слабый пароль", RegisterInput{Name: "Анна", Email: "a@example.com", Password: "short"}, apperror.ErrCodeValidation},
		{"неизвестная роль", RegisterInput{Name: "Анна", Email: "a@example.com", Password: "secret123", Role: "admin"}, apperror.ErrCodeValidation},
		{"плохой email", RegisterInput{Name: "Анна", Email: "not-an-email", Password: "secret123"}, apperror.ErrCodeValidation},
		{"короткое имя", RegisterInput{Name: "А", Email: "a@example.com", Password: "secret123"}, apperror.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.in)
			assert.Equal(t, tt.code, apperror.CodeOf(err))
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newTestAuthService()
	in := RegisterInput{Name: "Анна", Email: "anna@example.com", Password: "secret123", Role: "client"}

	_, err := s.Register(context.Background(), in)
	require.NoError(t, err)

	in.Email = "ANNA@example.com"
	_, err = s.Register(context.Background(), in)
	assert.ErrorIs(t, err, apperror.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	s := newTestAuthService()
	reg, err := s.Register(context.Background(), RegisterInput{
		Name: "Борис", Email: "boris@example.com", Password: "secret123", Role: "client",
	})
	require.NoError(t, err)

	res, err := s.Login(context.Background(), LoginInput{Email: "boris@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)

	_, err = s.Login(context.Background(), LoginInput{Email: "boris@example.com", Password: "wrong1234"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = s.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	s := newTestAuthService()
	reg, err := s.Register(context.Background(), RegisterInput{
		Name: "Борис", Email: "boris@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	user, err := s.Me(context.Background(), reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Борис", user.Name)

	_, err = s.Me(context.Background(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))

	_, err = s.Me(context.Background(), uuid.Nil)
	assert.True(t, apperror.IsUnauthorized(err))
}

func TestAuthenticate_RejectsForeignSignature(t *testing.T) {
	s := newTestAuthService()
	other := NewAuthService(memory.New().Users(), NewTokenManager("another-secret-of-enough-length-000", time.Hour))
	other.cost = bcrypt.MinCost

	res, err := other.Register(context.Background(), RegisterInput{Name: "Анна", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = s.Authenticate(res.Token)
	assert.True(t, apperror.IsUnauthorized(err))
}
