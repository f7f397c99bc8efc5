package entity

import (
	"time"
)

// Result представляет итог одной попытки прохождения викторины.
// Ровно одна запись на пару (user_id, quiz_id): уникальный индекс idx_user_quiz
// делает повторную отправку той же попытки no-op'ом, а не вторым результатом.
type Result struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index;uniqueIndex:idx_user_quiz" json:"user_id"`
	// QuizID — клиентский идентификатор попытки (непрозрачная строка)
	QuizID   string `gorm:"size:64;not null;uniqueIndex:idx_user_quiz" json:"quiz_id"`
	Category string `gorm:"size:50;not null;index" json:"category"`
	// TotalScore равен CorrectAnswers: очки за попытку — количество правильных ответов
	TotalScore         int       `gorm:"not null;default:0" json:"total_score"`
	QuestionsAttempted int       `gorm:"not null;default:0" json:"questions_attempted"`
	CorrectAnswers     int       `gorm:"not null;default:0" json:"correct_answers"`
	CreatedAt          time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Result) TableName() string {
	return "user_quiz"
}
