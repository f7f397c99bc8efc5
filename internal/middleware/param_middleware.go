package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExtractUintParam валидирует числовой параметр пути и кладет его в контекст
// Gin под ключом contextKey уже приведенным к uint. Обработчики дальше по
// цепочке читают значение через c.MustGet и не разбирают строку повторно.
// Нечисловой параметр отклоняется до входа в обработчик.
func ExtractUintParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      fmt.Sprintf("Invalid %s", paramName),
				"error_type": "validation_error",
			})
			c.Abort()
			return
		}
		c.Set(contextKey, uint(id))
		c.Next()
	}
}
