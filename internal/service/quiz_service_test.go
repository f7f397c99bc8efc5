package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
)

// ============================================================================
// Моки для QuizService
// ============================================================================

// MockQuestionRepo реализует repository.QuestionRepository
type MockQuestionRepo struct {
	mock.Mock
}

func (m *MockQuestionRepo) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepo) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) GetByIDTx(tx *gorm.DB, id uint) (*entity.Question, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) GetByCategory(category string) ([]entity.Question, error) {
	args := m.Called(category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) List(category string) ([]entity.Question, error) {
	args := m.Called(category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// memoryCache — простой кеш в памяти для проверки попаданий/инвалидации
type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Set(key string, value interface{}, expiration time.Duration) error {
	c.data[key] = []byte(value.(string))
	return nil
}

func (c *memoryCache) Get(key string) (string, error) {
	v, ok := c.data[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return string(v), nil
}

func (c *memoryCache) Delete(key string) error {
	delete(c.data, key)
	return nil
}

func (c *memoryCache) SetJSON(key string, value interface{}, expiration time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memoryCache) GetJSON(key string, dest interface{}) error {
	b, ok := c.data[key]
	if !ok {
		return apperrors.ErrNotFound
	}
	return json.Unmarshal(b, dest)
}

// ============================================================================
// Тесты
// ============================================================================

func TestQuizService_GetQuestionsByCategory_NormalizesCategory(t *testing.T) {
	// Arrange
	mockQuestionRepo := new(MockQuestionRepo)
	questions := []entity.Question{{ID: 1, QuestionText: "Q1", Category: "GK"}}
	// Репозиторий должен получить короткий код, а не полную метку
	mockQuestionRepo.On("GetByCategory", "GK").Return(questions, nil)

	quizService := NewQuizService(mockQuestionRepo, newMemoryCache())

	// Act
	got, err := quizService.GetQuestionsByCategory("General Knowledge")

	// Assert
	require.NoError(t, err)
	assert.Len(t, got, 1)
	mockQuestionRepo.AssertExpectations(t)
}

func TestQuizService_GetQuestionsByCategory_CacheHit(t *testing.T) {
	mockQuestionRepo := new(MockQuestionRepo)
	questions := []entity.Question{{ID: 1, QuestionText: "Q1", Category: "GK"}}
	mockQuestionRepo.On("GetByCategory", "GK").Return(questions, nil).Once()

	quizService := NewQuizService(mockQuestionRepo, newMemoryCache())

	// Первый вызов идет в репозиторий, второй — из кеша
	_, err := quizService.GetQuestionsByCategory("GK")
	require.NoError(t, err)

	got, err := quizService.GetQuestionsByCategory("GK")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	mockQuestionRepo.AssertNumberOfCalls(t, "GetByCategory", 1)
}

func TestQuizService_GetQuestionsByCategory_EmptyCategory(t *testing.T) {
	quizService := NewQuizService(new(MockQuestionRepo), newMemoryCache())

	_, err := quizService.GetQuestionsByCategory("  ")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestQuizService_AddQuestion_NormalizesAndInvalidatesCache(t *testing.T) {
	mockQuestionRepo := new(MockQuestionRepo)
	cache := newMemoryCache()
	// Старое содержимое кеша категории должно быть сброшено после записи
	require.NoError(t, cache.SetJSON("questions:category:GK", []entity.Question{}, 0))

	mockQuestionRepo.On("Create", mock.AnythingOfType("*entity.Question")).Return(nil)

	quizService := NewQuizService(mockQuestionRepo, cache)

	question := &entity.Question{
		QuestionText:  "What is the capital of France?",
		OptionA:       "Paris",
		OptionB:       "London",
		OptionC:       "Berlin",
		OptionD:       "Madrid",
		CorrectOption: "A",
		Category:      "General Knowledge",
	}

	err := quizService.AddQuestion(question)

	require.NoError(t, err)
	assert.Equal(t, "GK", question.Category, "Категория должна храниться в коротком коде")

	_, err = cache.Get("questions:category:GK")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "Кеш категории должен быть сброшен")
	mockQuestionRepo.AssertExpectations(t)
}

func TestQuizService_AddQuestion_Validation(t *testing.T) {
	quizService := NewQuizService(new(MockQuestionRepo), newMemoryCache())

	valid := func() *entity.Question {
		return &entity.Question{
			QuestionText:  "Q",
			OptionA:       "a",
			OptionB:       "b",
			OptionC:       "c",
			OptionD:       "d",
			CorrectOption: "A",
			Category:      "GK",
		}
	}

	cases := []struct {
		name   string
		mutate func(*entity.Question)
	}{
		{"empty text", func(q *entity.Question) { q.QuestionText = "" }},
		{"empty option", func(q *entity.Question) { q.OptionB = " " }},
		{"lowercase correct option", func(q *entity.Question) { q.CorrectOption = "a" }},
		{"unknown correct option", func(q *entity.Question) { q.CorrectOption = "E" }},
		{"empty category", func(q *entity.Question) { q.Category = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			question := valid()
			tc.mutate(question)
			err := quizService.AddQuestion(question)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))
		})
	}
}

func TestQuizService_DeleteQuestion_InvalidatesCache(t *testing.T) {
	mockQuestionRepo := new(MockQuestionRepo)
	cache := newMemoryCache()
	require.NoError(t, cache.SetJSON("questions:category:GK", []entity.Question{}, 0))

	mockQuestionRepo.On("GetByID", uint(5)).Return(&entity.Question{ID: 5, Category: "GK"}, nil)
	mockQuestionRepo.On("Delete", uint(5)).Return(nil)

	quizService := NewQuizService(mockQuestionRepo, cache)

	require.NoError(t, quizService.DeleteQuestion(5))

	_, err := cache.Get("questions:category:GK")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	mockQuestionRepo.AssertExpectations(t)
}

func TestQuizService_DeleteQuestion_NotFound(t *testing.T) {
	mockQuestionRepo := new(MockQuestionRepo)
	mockQuestionRepo.On("GetByID", uint(404)).Return(nil, apperrors.ErrNotFound)

	quizService := NewQuizService(mockQuestionRepo, newMemoryCache())

	err := quizService.DeleteQuestion(404)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	mockQuestionRepo.AssertNotCalled(t, "Delete")
}

func TestQuizService_ListQuestions_PassesNormalizedFilter(t *testing.T) {
	mockQuestionRepo := new(MockQuestionRepo)
	mockQuestionRepo.On("List", "GK").Return([]entity.Question{}, nil)

	quizService := NewQuizService(mockQuestionRepo, newMemoryCache())

	_, err := quizService.ListQuestions("General Knowledge")

	require.NoError(t, err)
	mockQuestionRepo.AssertExpectations(t)
}
