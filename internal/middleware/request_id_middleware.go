package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader — имя заголовка с идентификатором запроса
const RequestIDHeader = "X-Request-ID"

// RequestID присваивает каждому запросу уникальный идентификатор.
// Если клиент прислал свой X-Request-ID, он сохраняется как есть.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
