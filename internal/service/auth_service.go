package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// RegisterInput содержит данные для регистрации нового пользователя
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthService предоставляет методы для аутентификации и управления профилем
type AuthService struct {
	userRepo     repository.UserRepository
	emailService EmailService
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, emailService EmailService) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		emailService: emailService,
	}
}

// RegisterUser регистрирует нового пользователя
func (s *AuthService) RegisterUser(input RegisterInput) (*entity.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if username == "" || email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", apperrors.ErrValidation)
	}
	if len(input.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}

	// Проверяем, что email еще не занят
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// Проверяем, что имя пользователя еще не занято
	_, err = s.userRepo.GetByUsername(username)
	if err == nil {
		return nil, fmt.Errorf("%w: user with this username already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: input.Password, // хешируется в BeforeSave
		Role:     entity.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		log.Printf("[AuthService] Ошибка при создании пользователя %s: %v", email, err)
		return nil, err
	}

	// Приветственное письмо отправляется в фоне: его сбой не должен ломать регистрацию
	go func(toEmail, username string) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.emailService.SendWelcomeEmail(ctx, toEmail, username); err != nil {
			log.Printf("[AuthService] Не удалось отправить приветственное письмо на %s: %v", toEmail, err)
		}
	}(user.Email, user.Username)

	return user, nil
}

// AuthenticateUser проверяет учетные данные и возвращает пользователя
func (s *AuthService) AuthenticateUser(email, password string) (*entity.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Не раскрываем, существует ли пользователь
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	return user, nil
}

// GetUserByID возвращает пользователя по ID
func (s *AuthService) GetUserByID(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateUserProfile обновляет имя пользователя, email и/или пароль.
// Пустые поля не трогаются.
func (s *AuthService) UpdateUserProfile(userID uint, username, email, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	updates := map[string]interface{}{}

	if username != "" {
		existing, err := s.userRepo.GetByUsername(username)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != userID {
			return nil, fmt.Errorf("%w: username '%s' already taken", apperrors.ErrConflict, username)
		}
		updates["username"] = username
	}

	if email != "" {
		existing, err := s.userRepo.GetByEmail(email)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != userID {
			return nil, fmt.Errorf("%w: email '%s' already taken", apperrors.ErrConflict, email)
		}
		updates["email"] = email
	}

	if len(updates) == 0 && password == "" {
		return nil, fmt.Errorf("%w: nothing to update", apperrors.ErrValidation)
	}

	if password != "" && len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}

	if len(updates) > 0 {
		if err := s.userRepo.UpdateProfile(userID, updates); err != nil {
			return nil, err
		}
	}

	if password != "" {
		if err := s.userRepo.UpdatePassword(userID, password); err != nil {
			return nil, err
		}
	}

	return s.userRepo.GetByID(userID)
}

// ChangePassword меняет пароль пользователя после проверки старого
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if !user.CheckPassword(oldPassword) {
		return fmt.Errorf("%w: incorrect old password", apperrors.ErrUnauthorized)
	}

	return s.userRepo.UpdatePassword(userID, newPassword)
}
