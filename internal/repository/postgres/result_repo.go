package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// ResultRepo реализует repository.ResultRepository
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo создает новый репозиторий результатов
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// SaveUserAnswerTx сохраняет ответ пользователя В ПЕРЕДАННОЙ ТРАНЗАКЦИИ.
// Откат при ошибке выполняет вызывающая сторона — транзакция управляется извне.
func (r *ResultRepo) SaveUserAnswerTx(tx *gorm.DB, answer *entity.UserAnswer) error {
	return tx.Create(answer).Error
}

// SaveResultTx сохраняет итог попытки В ПЕРЕДАННОЙ ТРАНЗАКЦИИ.
// Нарушение уникального индекса (user_id, quiz_id) — проигрыш гонки двух
// одновременных отправок одной попытки — транслируется в apperrors.ErrConflict,
// чтобы сервис мог вернуть прежний результат вместо ошибки.
func (r *ResultRepo) SaveResultTx(tx *gorm.DB, result *entity.Result) error {
	err := tx.Create(result).Error
	if err != nil && isUniqueViolation(err) {
		return apperrors.ErrConflict
	}
	return err
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и
// lib/pq драйверов, плюс транслированную ошибку GORM (для sqlite в тестах)
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}

// GetUserResult возвращает итог попытки пользователя
func (r *ResultRepo) GetUserResult(userID uint, quizID string) (*entity.Result, error) {
	var result entity.Result
	err := r.db.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// GetAttemptAnswers возвращает ответы попытки, соединенные с вопросами,
// в порядке их сохранения
func (r *ResultRepo) GetAttemptAnswers(userID uint, quizID string) ([]repository.AttemptAnswerRow, error) {
	var rows []repository.AttemptAnswerRow
	sql := `
	SELECT
	    q.id AS id,
	    q.question_text AS question_text,
	    ua.selected_option AS selected_option,
	    q.correct_option AS correct_option,
	    ua.is_correct AS is_correct
	FROM user_answers ua
	JOIN questions q ON q.id = ua.question_id
	WHERE ua.user_id = ? AND ua.quiz_id = ?
	ORDER BY ua.id`

	err := r.db.Raw(sql, userID, quizID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	// Пустой слайс — валидный результат, ErrNotFound здесь не нужен
	return rows, nil
}

// GetUserCategoryStats возвращает агрегаты попыток пользователя по категориям.
// Категории возвращаются в коротком коде — отображаемую форму дает сервис.
func (r *ResultRepo) GetUserCategoryStats(userID uint) ([]repository.CategoryStats, error) {
	var stats []repository.CategoryStats
	sql := `
	SELECT
	    category,
	    COUNT(*) AS attempts,
	    MAX(total_score) AS highscore,
	    AVG(total_score) AS average
	FROM user_quiz
	WHERE user_id = ?
	GROUP BY category`

	err := r.db.Raw(sql, userID).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
