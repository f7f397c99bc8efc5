package entity

import (
	"time"
)

// UserAnswer представляет один ответ пользователя в рамках попытки прохождения викторины.
// Записи создаются только транзакцией оценивания и никогда не обновляются.
type UserAnswer struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`
	// QuizID — клиентский идентификатор попытки, связывает ответ с итоговой записью Result
	QuizID         string    `gorm:"size:64;not null;index" json:"quiz_id"`
	QuestionID     uint      `gorm:"not null;index" json:"question_id"`
	SelectedOption string    `gorm:"size:1;not null" json:"selected_option"`
	IsCorrect      bool      `gorm:"not null" json:"is_correct"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (UserAnswer) TableName() string {
	return "user_answers"
}
