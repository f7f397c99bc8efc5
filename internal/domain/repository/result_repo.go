package repository

import (
	"github.com/yourusername/quiz-api/internal/domain/entity"
	"gorm.io/gorm"
)

// AttemptAnswerRow — строка чтения ответов попытки: ответ пользователя,
// соединенный с вопросом, для отображения разбора результатов
type AttemptAnswerRow struct {
	ID             uint   `json:"id"` // ID вопроса
	QuestionText   string `json:"question_text"`
	SelectedOption string `json:"selected_option"`
	CorrectOption  string `json:"correct_option"`
	IsCorrect      bool   `json:"is_correct"`
}

// CategoryStats — агрегат статистики пользователя по одной категории
type CategoryStats struct {
	Category  string  `json:"category"`
	Attempts  int64   `json:"attempts"`
	Highscore int     `json:"highscore"`
	Average   float64 `json:"average"`
}

// ResultRepository определяет методы для работы с ответами и результатами попыток
type ResultRepository interface {
	// SaveUserAnswerTx сохраняет ответ пользователя В ПЕРЕДАННОЙ ТРАНЗАКЦИИ
	SaveUserAnswerTx(tx *gorm.DB, answer *entity.UserAnswer) error
	// SaveResultTx сохраняет итог попытки В ПЕРЕДАННОЙ ТРАНЗАКЦИИ.
	// Нарушение уникального индекса (user_id, quiz_id) транслируется в apperrors.ErrConflict.
	SaveResultTx(tx *gorm.DB, result *entity.Result) error
	// GetUserResult возвращает итог попытки пользователя или apperrors.ErrNotFound
	GetUserResult(userID uint, quizID string) (*entity.Result, error)
	// GetAttemptAnswers возвращает ответы попытки, соединенные с вопросами
	GetAttemptAnswers(userID uint, quizID string) ([]AttemptAnswerRow, error)
	// GetUserCategoryStats возвращает агрегаты по категориям; категории в коротком коде
	GetUserCategoryStats(userID uint) ([]CategoryStats, error)
}
