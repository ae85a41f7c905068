package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/logger"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/gig-marketplace/internal/validation"
)

// AuthService инкапсулирует регистрацию и аутентификацию.
type AuthService struct {
	users        repository.UserRepository
	tokenManager *TokenManager
	cost         int
}

// RegisterInput содержит данные пользователя при регистрации.
// Пустая роль означает freelancer.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult возвращает итог регистрации или входа.
type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(users repository.UserRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		users:        users,
		tokenManager: tokenManager,
		cost:         bcrypt.DefaultCost,
	}
}

// Register создаёт пользователя и сразу выпускает токен.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	rawRole := strings.TrimSpace(in.Role)
	if rawRole == "" {
		rawRole = string(valueobject.RoleFreelancer)
	}
	role, err := valueobject.NewRole(rawRole)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось обработать пароль")
	}

	user, err := entity.NewUser(in.Name, in.Email, string(hash), role)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
	}).Info("auth service: пользователь зарегистрирован")

	return s.issue(user)
}

// Login проверяет учётные данные и возвращает токен.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "email и пароль обязательны")
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Me возвращает текущего пользователя.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	if userID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}
	return s.users.FindByID(ctx, userID)
}

// Authenticate разбирает токен для middleware.
func (s *AuthService) Authenticate(token string) (entity.Identity, error) {
	identity, err := s.tokenManager.ParseAccess(token)
	if err != nil {
		return entity.Identity{}, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "недействительный токен")
	}
	return identity, nil
}

func (s *AuthService) issue(user *entity.User) (*AuthResult, error) {
	token, exp, err := s.tokenManager.Generate(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токен")
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}
