package repository

import (
	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	// UpdateProfile обновляет указанные поля профиля, пароль через него менять нельзя
	UpdateProfile(userID uint, updates map[string]interface{}) error
	UpdatePassword(userID uint, newPassword string) error
}
