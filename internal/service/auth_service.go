package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/examify-api/internal/domain/entity"
	"github.com/yourusername/examify-api/internal/domain/repository"
	apperrors "github.com/yourusername/examify-api/internal/pkg/errors"
)

// AuthService предоставляет методы для регистрации и входа пользователей
type AuthService struct {
	userRepo repository.UserRepository
}

// RegisterInput содержит все данные для регистрации
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Image    string
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(userRepo repository.UserRepository) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	return &AuthService{userRepo: userRepo}, nil
}

// normalizeEmail приводит email к каноническому виду
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterUser регистрирует нового пользователя.
// Пароль хешируется на сохранении (GORM-хук) и в открытом виде дальше не живет.
func (s *AuthService) RegisterUser(input RegisterInput) (*entity.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)

	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}
	if len(input.Password) < 6 {
		return nil, ErrPasswordTooShort
	}

	// Предварительная проверка занятости email
	_, err := s.userRepo.GetByEmail(input.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}

	user := &entity.User{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.Password,
		Image:    input.Image,
	}

	if err := s.userRepo.Create(user); err != nil {
		// Гонка с параллельной регистрацией: уникальный индекс в БД отклонил
		// вторую вставку — наружу уходит тот же ответ, что и у предпроверки
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[AuthService] Пользователь ID=%d (%s) зарегистрирован", user.ID, user.Email)
	return user, nil
}

// LoginUser проверяет учетные данные и возвращает пользователя.
// Неизвестный email и неверный пароль дают одинаковую ошибку.
func (s *AuthService) LoginUser(email, password string) (*entity.User, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID возвращает пользователя по идентификатору
func (s *AuthService) GetUserByID(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}
