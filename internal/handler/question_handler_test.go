package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/middleware"
	pgRepo "github.com/yourusername/quiz-api/internal/repository/postgres"
	"github.com/yourusername/quiz-api/internal/service"
	"github.com/yourusername/quiz-api/pkg/auth"
)

// setupAdminAPITest собирает админский роутер поверх in-memory SQLite.
// Возвращает роутер, базу, токен администратора и токен обычного пользователя.
func setupAdminAPITest(t *testing.T) (*gin.Engine, *gorm.DB, string, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Question{}))

	questions := []entity.Question{
		{QuestionText: "GK question", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectOption: "A", Category: "GK"},
		{QuestionText: "Science question", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectOption: "B", Category: "Science"},
	}
	for i := range questions {
		require.NoError(t, db.Create(&questions[i]).Error)
	}

	jwtService, err := auth.NewJWTService("test-secret", 24)
	require.NoError(t, err)

	quizService := service.NewQuizService(pgRepo.NewQuestionRepo(db), noCache{})
	questionHandler := NewQuestionHandler(quizService)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	router := gin.New()
	admin := router.Group("/admin")
	admin.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
	{
		admin.POST("/add-question", questionHandler.AddQuestion)
		admin.GET("/questions", questionHandler.GetQuestionsByCategory)
		admin.GET("/view-questions", questionHandler.ListQuestions)
		admin.GET("/export-questions", questionHandler.ExportQuestions)

		deleteQuestion := admin.Group("/delete-question/:id")
		deleteQuestion.Use(middleware.ExtractUintParam("id", "questionID"))
		{
			deleteQuestion.DELETE("", questionHandler.DeleteQuestion)
		}
	}

	adminToken, err := jwtService.GenerateToken(&entity.User{ID: 1, Username: "admin", Email: "admin@example.com", Role: entity.RoleAdmin})
	require.NoError(t, err)
	userToken, err := jwtService.GenerateToken(&entity.User{ID: 2, Username: "player", Email: "p@example.com", Role: entity.RoleUser})
	require.NoError(t, err)

	return router, db, adminToken, userToken
}

func TestAdminRoutes_ForbiddenForRegularUser(t *testing.T) {
	router, _, _, userToken := setupAdminAPITest(t)

	w := doJSON(router, http.MethodGet, "/admin/view-questions", userToken, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddQuestion_NormalizesCategory(t *testing.T) {
	router, db, adminToken, _ := setupAdminAPITest(t)

	w := doJSON(router, http.MethodPost, "/admin/add-question", adminToken, gin.H{
		"question_text":  "New question",
		"a":              "opt a",
		"b":              "opt b",
		"c":              "opt c",
		"d":              "opt d",
		"correct_option": "D",
		"category":       "General Knowledge",
	})

	require.Equal(t, http.StatusCreated, w.Code, "Body: %s", w.Body.String())

	var stored entity.Question
	require.NoError(t, db.Where("question_text = ?", "New question").First(&stored).Error)
	assert.Equal(t, "GK", stored.Category, "Категория хранится в коротком коде")
	assert.Equal(t, "D", stored.CorrectOption)
}

func TestAddQuestion_RejectsBadCorrectOption(t *testing.T) {
	router, _, adminToken, _ := setupAdminAPITest(t)

	w := doJSON(router, http.MethodPost, "/admin/add-question", adminToken, gin.H{
		"question_text":  "Bad question",
		"a":              "opt a",
		"b":              "opt b",
		"c":              "opt c",
		"d":              "opt d",
		"correct_option": "E",
		"category":       "GK",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}

func TestGetQuestionsByCategory_RequiresCategory(t *testing.T) {
	router, _, adminToken, _ := setupAdminAPITest(t)

	w := doJSON(router, http.MethodGet, "/admin/questions", adminToken, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Category parameter is required")
}

func TestGetQuestionsByCategory_FiltersAndNormalizes(t *testing.T) {
	router, _, adminToken, _ := setupAdminAPITest(t)

	// Отображаемая форма категории принимается наравне с коротким кодом
	w := doJSON(router, http.MethodGet, "/admin/questions?category=General%20Knowledge", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got []entity.Question
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "GK question", got[0].QuestionText)
}

func TestListQuestions_NoFilterReturnsAll(t *testing.T) {
	router, _, adminToken, _ := setupAdminAPITest(t)

	w := doJSON(router, http.MethodGet, "/admin/view-questions", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got []entity.Question
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestDeleteQuestion_EndToEnd(t *testing.T) {
	router, db, adminToken, _ := setupAdminAPITest(t)

	w := doJSON(router, http.MethodDelete, "/admin/delete-question/1", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&entity.Question{}).Where("id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// Повторное удаление — вопрос уже отсутствует
	again := doJSON(router, http.MethodDelete, "/admin/delete-question/1", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, again.Code)
}

func TestDeleteQuestion_BadID(t *testing.T) {
	router, _, adminToken, _ := setupAdminAPITest(t)

	w := doJSON(router, http.MethodDelete, "/admin/delete-question/abc", adminToken, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}

func TestExportQuestions_CSV(t *testing.T) {
	router, _, adminToken, _ := setupAdminAPITest(t)

	w := doJSON(router, http.MethodGet, "/admin/export-questions?format=csv", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	body := w.Body.Bytes()
	require.True(t, len(body) > 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, body[:3], "CSV начинается с UTF-8 BOM")
	assert.Contains(t, w.Body.String(), "GK question")
	assert.Contains(t, w.Body.String(), "General Knowledge", "В выгрузке категория в отображаемой форме")
}

func TestExportQuestions_XLSX(t *testing.T) {
	router, _, adminToken, _ := setupAdminAPITest(t)

	w := doJSON(router, http.MethodGet, "/admin/export-questions?format=xlsx", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	// XLSX — это zip-архив, проверяем сигнатуру PK
	body := w.Body.Bytes()
	require.True(t, len(body) > 2)
	assert.Equal(t, []byte{'P', 'K'}, body[:2])
}

func TestSanitizeForExcel(t *testing.T) {
	assert.Equal(t, "'=SUM(A1)", sanitizeForExcel("=SUM(A1)"))
	assert.Equal(t, "'+1+1", sanitizeForExcel("+1+1"))
	assert.Equal(t, "'@cmd", sanitizeForExcel("@cmd"))
	assert.Equal(t, "plain text", sanitizeForExcel("plain text"))
	assert.Equal(t, "", sanitizeForExcel(""))
}
