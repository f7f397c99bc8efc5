package repository

import (
	"github.com/yourusername/quiz-api/internal/domain/entity"
	"gorm.io/gorm"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	Create(question *entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	// GetByIDTx читает вопрос В ПЕРЕДАННОЙ ТРАНЗАКЦИИ — используется транзакцией оценивания
	GetByIDTx(tx *gorm.DB, id uint) (*entity.Question, error)
	// GetByCategory возвращает вопросы категории; category уже в коротком коде
	GetByCategory(category string) ([]entity.Question, error)
	// List возвращает все вопросы, новые первыми; category опциональна (пустая строка = все)
	List(category string) ([]entity.Question, error)
	Delete(id uint) error
}
