package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/quiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/internal/service"
)

// QuestionHandler обрабатывает административные запросы управления вопросами
type QuestionHandler struct {
	quizService *service.QuizService
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(quizService *service.QuizService) *QuestionHandler {
	return &QuestionHandler{quizService: quizService}
}

// AddQuestionRequest представляет запрос на добавление вопроса
type AddQuestionRequest struct {
	QuestionText  string `json:"question_text" binding:"required"`
	OptionA       string `json:"a" binding:"required"`
	OptionB       string `json:"b" binding:"required"`
	OptionC       string `json:"c" binding:"required"`
	OptionD       string `json:"d" binding:"required"`
	CorrectOption string `json:"correct_option" binding:"required,oneof=A B C D"`
	Category      string `json:"category" binding:"required"`
}

// AddQuestion добавляет новый вопрос
// POST /admin/add-question
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	var req AddQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	question := &entity.Question{
		QuestionText:  req.QuestionText,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectOption: req.CorrectOption,
		Category:      req.Category,
	}

	if err := h.quizService.AddQuestion(question); err != nil {
		h.handleQuestionError(c, err)
		return
	}

	log.Printf("[QuestionHandler] Добавлен вопрос #%d в категории %s", question.ID, question.Category)
	c.JSON(http.StatusCreated, question)
}

// GetQuestionsByCategory возвращает вопросы категории с правильными ответами
// GET /admin/questions?category=
func (h *QuestionHandler) GetQuestionsByCategory(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category parameter is required", "error_type": "validation_error"})
		return
	}

	questions, err := h.quizService.ListQuestions(category)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// ListQuestions возвращает все вопросы, опционально фильтруя по категории
// GET /admin/view-questions?category=
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	questions, err := h.quizService.ListQuestions(c.Query("category"))
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// DeleteQuestion удаляет вопрос
// DELETE /admin/delete-question/:id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	if err := h.quizService.DeleteQuestion(questionID); err != nil {
		h.handleQuestionError(c, err)
		return
	}

	log.Printf("[QuestionHandler] Удален вопрос #%d", questionID)
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

// ExportQuestions выгружает банк вопросов
// GET /admin/export-questions?format=csv|xlsx&category=
func (h *QuestionHandler) ExportQuestions(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	questions, err := h.quizService.ListQuestions(c.Query("category"))
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	filename := fmt.Sprintf("questions_%s", time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, questions, filename)
	default:
		h.exportCSV(c, questions, filename)
	}
}

// exportCSV экспортирует вопросы в CSV с правильным экранированием спецсимволов
func (h *QuestionHandler) exportCSV(c *gin.Context, questions []entity.Question, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	// Используем encoding/csv для правильного экранирования запятых/кавычек
	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"ID", "Вопрос", "A", "B", "C", "D", "Правильный", "Категория"})

	for _, q := range questions {
		writer.Write([]string{
			strconv.Itoa(int(q.ID)),
			sanitizeForExcel(q.QuestionText),
			sanitizeForExcel(q.OptionA),
			sanitizeForExcel(q.OptionB),
			sanitizeForExcel(q.OptionC),
			sanitizeForExcel(q.OptionD),
			q.CorrectOption,
			entity.DisplayCategory(q.Category),
		})
	}
}

// exportXLSX экспортирует вопросы в Excel с использованием StreamWriter
func (h *QuestionHandler) exportXLSX(c *gin.Context, questions []entity.Question, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Вопросы"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[QuestionHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"ID", "Вопрос", "A", "B", "C", "D", "Правильный", "Категория"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[QuestionHandler] Ошибка записи заголовков: %v", err)
	}

	for i, q := range questions {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)

		row := []interface{}{
			q.ID,
			sanitizeForExcel(q.QuestionText),
			sanitizeForExcel(q.OptionA),
			sanitizeForExcel(q.OptionB),
			sanitizeForExcel(q.OptionC),
			sanitizeForExcel(q.OptionD),
			q.CorrectOption,
			entity.DisplayCategory(q.Category),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[QuestionHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[QuestionHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[QuestionHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// handleQuestionError преобразует ошибки сервиса в HTTP-ответы
func (h *QuestionHandler) handleQuestionError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in QuestionHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
