package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/quiz-api/internal/handler/dto"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/internal/service"
	"github.com/yourusername/quiz-api/pkg/auth"
)

// AuthHandler обрабатывает запросы, связанные с аутентификацией
type AuthHandler struct {
	authService *service.AuthService
	jwtService  *auth.JWTService
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
	}
}

// Структуры запросов и ответов

// RegisterRequest представляет запрос на регистрацию
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest представляет запрос на обновление профиля
type UpdateProfileRequest struct {
	Username string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6,max=50"`
}

// ChangePasswordRequest представляет запрос на изменение пароля
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// AuthResponse структура для ответа с пользовательскими данными и токеном
type AuthResponse struct {
	User        *dto.UserDTO `json:"user"`
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresIn   int          `json:"expiresIn"`
}

// Register обрабатывает запрос на регистрацию
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	user, err := h.authService.RegisterUser(service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	log.Printf("[AuthHandler] Пользователь ID=%d (%s) успешно зарегистрирован", user.ID, user.Email)

	token, err := h.jwtService.GenerateToken(user)
	if err != nil {
		log.Printf("[AuthHandler] Ошибка генерации токена для пользователя ID=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		User:        dto.NewUserDTO(user),
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   h.jwtService.ExpirationSeconds(),
	})
}

// Login обрабатывает запрос на вход
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	user, err := h.authService.AuthenticateUser(req.Email, req.Password)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	token, err := h.jwtService.GenerateToken(user)
	if err != nil {
		log.Printf("[AuthHandler] Ошибка генерации токена для пользователя ID=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	log.Printf("[AuthHandler] Пользователь ID=%d (%s) вошел в систему", user.ID, user.Email)

	c.JSON(http.StatusOK, AuthResponse{
		User:        dto.NewUserDTO(user),
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   h.jwtService.ExpirationSeconds(),
	})
}

// GetCurrentUser возвращает данные аутентифицированного пользователя
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserDTO(user))
}

// CheckToken подтверждает валидность токена.
// До этого обработчика запрос уже прошел RequireAuth, так что достаточно
// вернуть данные из контекста.
func (h *AuthHandler) CheckToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user": gin.H{
			"user_id":  c.MustGet("user_id"),
			"username": c.MustGet("username"),
			"email":    c.MustGet("email"),
			"role":     c.MustGet("role"),
		},
	})
}

// UpdateProfile обрабатывает запрос на обновление профиля
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	user, err := h.authService.UpdateUserProfile(userID, req.Username, req.Email, req.Password)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	// Identity в токене изменилась, выдаем новый
	token, err := h.jwtService.GenerateToken(user)
	if err != nil {
		log.Printf("[AuthHandler] Ошибка генерации токена для пользователя ID=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	log.Printf("[AuthHandler] Профиль пользователя ID=%d обновлен", userID)
	c.JSON(http.StatusOK, AuthResponse{
		User:        dto.NewUserDTO(user),
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   h.jwtService.ExpirationSeconds(),
	})
}

// ChangePassword обрабатывает запрос на изменение пароля
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	if err := h.authService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// handleAuthError преобразует ошибки сервиса в HTTP-ответы
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in AuthHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
