package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок аутентификации (нет токена, неверный токен, неверные учетные данные).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken используется, когда токен доступа истек.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict используется для конфликтов состояния (например, повторная регистрация email
	// или проигрыш гонки за уникальный индекс попытки).
	ErrConflict = errors.New("resource state conflict")

	// ErrInvalidReference используется, когда запрос ссылается на несуществующую запись
	// (например, ответ на несуществующий вопрос). Это нарушение целостности данных,
	// а не ошибка валидации ввода — наружу отдается как 500.
	ErrInvalidReference = errors.New("invalid reference")
)
