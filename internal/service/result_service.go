package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// statsCacheTTL — время жизни кеша статистики пользователя
const statsCacheTTL = 2 * time.Minute

// AnswerInput — один ответ пользователя в отправленной попытке
type AnswerInput struct {
	QuestionID     uint
	SelectedOption string
}

// SubmitQuizInput содержит данные отправленной попытки
type SubmitQuizInput struct {
	UserID   uint
	QuizID   string
	Category string
	Answers  []AnswerInput
}

// SubmitOutcome — итог обработки попытки.
// AlreadySubmitted=true означает, что попытка с этим quiz_id уже была засчитана
// раньше и возвращен сохраненный ранее результат.
type SubmitOutcome struct {
	Result           *entity.Result
	AlreadySubmitted bool
}

// QuizResults — результат попытки вместе с разбором ответов
type QuizResults struct {
	Result  *entity.Result
	Answers []repository.AttemptAnswerRow
}

// ResultService предоставляет методы для оценивания попыток и чтения результатов
type ResultService struct {
	resultRepo   repository.ResultRepository
	questionRepo repository.QuestionRepository
	cacheRepo    repository.CacheRepository
	db           *gorm.DB
}

// NewResultService создает новый сервис результатов
func NewResultService(
	resultRepo repository.ResultRepository,
	questionRepo repository.QuestionRepository,
	cacheRepo repository.CacheRepository,
	db *gorm.DB,
) *ResultService {
	return &ResultService{
		resultRepo:   resultRepo,
		questionRepo: questionRepo,
		cacheRepo:    cacheRepo,
		db:           db,
	}
}

func statsCacheKey(userID uint) string {
	return fmt.Sprintf("stats:user:%d", userID)
}

// SubmitQuiz оценивает отправленную попытку и сохраняет результаты атомарно:
// либо записываются все ответы и итог, либо ничего.
// Повторная отправка того же quiz_id возвращает сохраненный ранее итог.
func (s *ResultService) SubmitQuiz(input SubmitQuizInput) (*SubmitOutcome, error) {
	quizID := strings.TrimSpace(input.QuizID)
	if quizID == "" {
		return nil, fmt.Errorf("%w: quiz_id is required", apperrors.ErrValidation)
	}
	if len(input.Answers) == 0 {
		return nil, fmt.Errorf("%w: answers must not be empty", apperrors.ErrValidation)
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, fmt.Errorf("%w: category is required", apperrors.ErrValidation)
	}
	for _, a := range input.Answers {
		if a.QuestionID == 0 {
			return nil, fmt.Errorf("%w: question_id is required for every answer", apperrors.ErrValidation)
		}
		if !entity.IsValidOption(a.SelectedOption) {
			return nil, fmt.Errorf("%w: selected_option must be one of A, B, C, D", apperrors.ErrValidation)
		}
	}

	category := entity.NormalizeCategory(input.Category)

	// Быстрая проверка на повторную отправку до открытия транзакции
	if prior, err := s.resultRepo.GetUserResult(input.UserID, quizID); err == nil {
		log.Printf("[ResultService] Повторная отправка попытки %s пользователем #%d, возвращаю сохраненный результат", quizID, input.UserID)
		return &SubmitOutcome{Result: prior, AlreadySubmitted: true}, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// --- Начало транзакции ---
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			log.Printf("PANIC recovered during SubmitQuiz transaction: %v", r)
		}
	}()

	if tx.Error != nil {
		log.Printf("Error starting transaction in SubmitQuiz: %v", tx.Error)
		return nil, tx.Error
	}

	correctCount := 0
	for _, a := range input.Answers {
		// Вопрос читается в той же транзакции, что и записи ответов
		question, err := s.questionRepo.GetByIDTx(tx, a.QuestionID)
		if err != nil {
			tx.Rollback()
			if errors.Is(err, apperrors.ErrNotFound) {
				log.Printf("[ResultService] Попытка %s ссылается на несуществующий вопрос #%d", quizID, a.QuestionID)
				return nil, fmt.Errorf("%w: question %d does not exist", apperrors.ErrInvalidReference, a.QuestionID)
			}
			return nil, err
		}

		isCorrect := question.IsCorrect(a.SelectedOption)
		if isCorrect {
			correctCount++
		}

		answer := &entity.UserAnswer{
			UserID:         input.UserID,
			QuizID:         quizID,
			QuestionID:     a.QuestionID,
			SelectedOption: a.SelectedOption,
			IsCorrect:      isCorrect,
		}
		if err := s.resultRepo.SaveUserAnswerTx(tx, answer); err != nil {
			tx.Rollback()
			log.Printf("Error saving user answer in transaction: %v", err)
			return nil, fmt.Errorf("failed to save user answer: %w", err)
		}
	}

	result := &entity.Result{
		UserID:             input.UserID,
		QuizID:             quizID,
		Category:           category,
		TotalScore:         correctCount,
		QuestionsAttempted: len(input.Answers),
		CorrectAnswers:     correctCount,
	}

	if err := s.resultRepo.SaveResultTx(tx, result); err != nil {
		tx.Rollback()
		if errors.Is(err, apperrors.ErrConflict) {
			// Проиграна гонка за уникальный индекс (user_id, quiz_id):
			// другая параллельная отправка уже засчитала попытку
			prior, priorErr := s.resultRepo.GetUserResult(input.UserID, quizID)
			if priorErr != nil {
				return nil, priorErr
			}
			log.Printf("[ResultService] Параллельная отправка попытки %s пользователем #%d, возвращаю сохраненный результат", quizID, input.UserID)
			return &SubmitOutcome{Result: prior, AlreadySubmitted: true}, nil
		}
		log.Printf("Error saving result in transaction: %v", err)
		return nil, fmt.Errorf("failed to save result: %w", err)
	}

	// --- Коммит транзакции ---
	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing transaction in SubmitQuiz: %v", err)
		return nil, err
	}

	// Статистика пользователя изменилась
	if err := s.cacheRepo.Delete(statsCacheKey(input.UserID)); err != nil {
		log.Printf("[ResultService] Не удалось сбросить кеш статистики пользователя #%d: %v", input.UserID, err)
	}

	log.Printf("[ResultService] Попытка %s пользователя #%d засчитана: %d/%d", quizID, input.UserID, correctCount, len(input.Answers))
	return &SubmitOutcome{Result: result}, nil
}

// GetQuizResults возвращает итог попытки пользователя вместе с разбором ответов
func (s *ResultService) GetQuizResults(userID uint, quizID string) (*QuizResults, error) {
	quizID = strings.TrimSpace(quizID)
	if quizID == "" {
		return nil, fmt.Errorf("%w: quiz_id is required", apperrors.ErrValidation)
	}

	result, err := s.resultRepo.GetUserResult(userID, quizID)
	if err != nil {
		return nil, err
	}

	answers, err := s.resultRepo.GetAttemptAnswers(userID, quizID)
	if err != nil {
		return nil, err
	}

	return &QuizResults{Result: result, Answers: answers}, nil
}

// GetUserStats возвращает агрегированную статистику пользователя по категориям.
// Категории отдаются в отображаемой форме ("GK" -> "General Knowledge").
func (s *ResultService) GetUserStats(userID uint) ([]repository.CategoryStats, error) {
	var cached []repository.CategoryStats
	if err := s.cacheRepo.GetJSON(statsCacheKey(userID), &cached); err == nil {
		return cached, nil
	}

	stats, err := s.resultRepo.GetUserCategoryStats(userID)
	if err != nil {
		return nil, err
	}

	for i := range stats {
		stats[i].Category = entity.DisplayCategory(stats[i].Category)
	}

	if err := s.cacheRepo.SetJSON(statsCacheKey(userID), stats, statsCacheTTL); err != nil {
		log.Printf("[ResultService] Не удалось закешировать статистику пользователя #%d: %v", userID, err)
	}

	return stats, nil
}
