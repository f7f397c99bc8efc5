package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	return r.getByID(r.db, id)
}

// GetByIDTx возвращает вопрос по ID В ПЕРЕДАННОЙ ТРАНЗАКЦИИ.
// Транзакция оценивания читает правильные варианты этим методом, чтобы
// поиск и вставки шли через одно соединение пула.
func (r *QuestionRepo) GetByIDTx(tx *gorm.DB, id uint) (*entity.Question, error) {
	return r.getByID(tx, id)
}

func (r *QuestionRepo) getByID(db *gorm.DB, id uint) (*entity.Question, error) {
	var question entity.Question
	err := db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByCategory возвращает все вопросы категории (category уже нормализована)
func (r *QuestionRepo) GetByCategory(category string) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Where("category = ?", category).Order("id").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// List возвращает вопросы, новые первыми; пустая category — все категории
func (r *QuestionRepo) List(category string) ([]entity.Question, error) {
	var questions []entity.Question
	query := r.db.Order("id DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// Delete удаляет вопрос; apperrors.ErrNotFound, если вопроса нет
func (r *QuestionRepo) Delete(id uint) error {
	result := r.db.Delete(&entity.Question{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
