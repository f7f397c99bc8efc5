package dto

import (
	"time"

	"github.com/yourusername/quiz-api/internal/domain/entity"
)

// UserDTO представляет пользователя в ответах API
type UserDTO struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserDTO преобразует сущность пользователя в DTO
func NewUserDTO(user *entity.User) *UserDTO {
	return &UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
