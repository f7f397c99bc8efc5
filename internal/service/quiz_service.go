package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// questionsCacheTTL — время жизни кеша списка вопросов
const questionsCacheTTL = 5 * time.Minute

// QuizService предоставляет методы для работы с вопросами викторины
type QuizService struct {
	questionRepo repository.QuestionRepository
	cacheRepo    repository.CacheRepository
}

// NewQuizService создает новый сервис викторин
func NewQuizService(
	questionRepo repository.QuestionRepository,
	cacheRepo repository.CacheRepository,
) *QuizService {
	return &QuizService{
		questionRepo: questionRepo,
		cacheRepo:    cacheRepo,
	}
}

func questionsCacheKey(category string) string {
	return "questions:category:" + category
}

// GetQuestionsByCategory возвращает вопросы указанной категории.
// Категория нормализуется к короткому коду, результат кешируется в Redis.
func (s *QuizService) GetQuestionsByCategory(category string) ([]entity.Question, error) {
	if strings.TrimSpace(category) == "" {
		return nil, fmt.Errorf("%w: category is required", apperrors.ErrValidation)
	}

	code := entity.NormalizeCategory(category)

	// Сначала пробуем кеш; ошибки кеша не фатальны
	var cached []entity.Question
	if err := s.cacheRepo.GetJSON(questionsCacheKey(code), &cached); err == nil {
		return cached, nil
	}

	questions, err := s.questionRepo.GetByCategory(code)
	if err != nil {
		return nil, err
	}

	if err := s.cacheRepo.SetJSON(questionsCacheKey(code), questions, questionsCacheTTL); err != nil {
		log.Printf("[QuizService] Не удалось закешировать вопросы категории %s: %v", code, err)
	}

	return questions, nil
}

// AddQuestion создает новый вопрос (только для администратора)
func (s *QuizService) AddQuestion(question *entity.Question) error {
	if strings.TrimSpace(question.QuestionText) == "" {
		return fmt.Errorf("%w: question text is required", apperrors.ErrValidation)
	}
	for _, letter := range []string{"A", "B", "C", "D"} {
		if strings.TrimSpace(question.Option(letter)) == "" {
			return fmt.Errorf("%w: option %s is required", apperrors.ErrValidation, letter)
		}
	}
	if !entity.IsValidOption(question.CorrectOption) {
		return fmt.Errorf("%w: correct_option must be one of A, B, C, D", apperrors.ErrValidation)
	}
	if strings.TrimSpace(question.Category) == "" {
		return fmt.Errorf("%w: category is required", apperrors.ErrValidation)
	}

	// На запись категория тоже хранится в коротком коде
	question.Category = entity.NormalizeCategory(question.Category)

	if err := s.questionRepo.Create(question); err != nil {
		return err
	}

	s.invalidateQuestionsCache(question.Category)
	return nil
}

// ListQuestions возвращает все вопросы, опционально отфильтрованные по категории
func (s *QuizService) ListQuestions(category string) ([]entity.Question, error) {
	code := ""
	if strings.TrimSpace(category) != "" {
		code = entity.NormalizeCategory(category)
	}
	return s.questionRepo.List(code)
}

// GetQuestionByID возвращает вопрос по ID
func (s *QuizService) GetQuestionByID(id uint) (*entity.Question, error) {
	return s.questionRepo.GetByID(id)
}

// DeleteQuestion удаляет вопрос (только для администратора)
func (s *QuizService) DeleteQuestion(id uint) error {
	question, err := s.questionRepo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.questionRepo.Delete(id); err != nil {
		return err
	}

	s.invalidateQuestionsCache(question.Category)
	return nil
}

// invalidateQuestionsCache сбрасывает кеш вопросов категории
func (s *QuizService) invalidateQuestionsCache(category string) {
	if err := s.cacheRepo.Delete(questionsCacheKey(category)); err != nil {
		log.Printf("[QuizService] Не удалось сбросить кеш вопросов категории %s: %v", category, err)
	}
}
