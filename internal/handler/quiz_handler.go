package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/internal/service"
)

// QuizHandler обрабатывает запросы прохождения викторины и чтения результатов
type QuizHandler struct {
	quizService   *service.QuizService
	resultService *service.ResultService
}

// NewQuizHandler создает новый обработчик викторин
func NewQuizHandler(
	quizService *service.QuizService,
	resultService *service.ResultService,
) *QuizHandler {
	return &QuizHandler{
		quizService:   quizService,
		resultService: resultService,
	}
}

// SubmitAnswerRequest — один ответ в отправленной попытке
type SubmitAnswerRequest struct {
	QuestionID     uint   `json:"question_id" binding:"required"`
	SelectedOption string `json:"selected_option" binding:"required"`
}

// SubmitQuizRequest представляет запрос на отправку попытки
type SubmitQuizRequest struct {
	QuizID   string                `json:"quiz_id" binding:"required"`
	Category string                `json:"category" binding:"required"`
	Answers  []SubmitAnswerRequest `json:"answers" binding:"required,min=1,dive"`
}

// GetQuestions возвращает вопросы категории
// GET /questions?category=
func (h *QuizHandler) GetQuestions(c *gin.Context) {
	category := c.Query("category")

	questions, err := h.quizService.GetQuestionsByCategory(category)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// SubmitQuiz принимает ответы попытки, оценивает и сохраняет их атомарно
// POST /submit-quiz
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	answers := make([]service.AnswerInput, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = service.AnswerInput{
			QuestionID:     a.QuestionID,
			SelectedOption: a.SelectedOption,
		}
	}

	outcome, err := h.resultService.SubmitQuiz(service.SubmitQuizInput{
		UserID:   userID,
		QuizID:   req.QuizID,
		Category: req.Category,
		Answers:  answers,
	})
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	status := http.StatusCreated
	if outcome.AlreadySubmitted {
		status = http.StatusOK
	}

	c.JSON(status, gin.H{
		"score":   outcome.Result.TotalScore,
		"total":   outcome.Result.QuestionsAttempted,
		"quiz_id": outcome.Result.QuizID,
	})
}

// GetQuizResults возвращает разбор ответов попытки
// GET /quiz-results/:quiz_id
func (h *QuizHandler) GetQuizResults(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	quizID := c.Param("quiz_id")

	results, err := h.resultService.GetQuizResults(userID, quizID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, results.Answers)
}

// GetQuizStats возвращает статистику пользователя по категориям
// GET /quiz-stats
func (h *QuizHandler) GetQuizStats(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	stats, err := h.resultService.GetUserStats(userID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// handleQuizError преобразует ошибки сервиса в HTTP-ответы.
// ErrInvalidReference намеренно отдается как 500: попытка сослалась на
// несуществующий вопрос, это дефект данных, а не ошибка клиента.
func (h *QuizHandler) handleQuizError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrInvalidReference) {
		log.Printf("ERROR: Data integrity violation in QuizHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	} else if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		// Тот же статус, что и у ошибок биндинга: источник один — неверный ввод
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in QuizHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
