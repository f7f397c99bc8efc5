package entity

import (
	"time"
)

// Question представляет вопрос викторины с четырьмя вариантами ответа
type Question struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	QuestionText string `gorm:"size:500;not null" json:"question_text"`
	OptionA      string `gorm:"column:a;size:255;not null" json:"a"`
	OptionB      string `gorm:"column:b;size:255;not null" json:"b"`
	OptionC      string `gorm:"column:c;size:255;not null" json:"c"`
	OptionD      string `gorm:"column:d;size:255;not null" json:"d"`
	// Правильный вариант: одна из букв "A", "B", "C", "D"
	CorrectOption string `gorm:"size:1;not null" json:"correct_option"`
	// Категория хранится только в коротком коде (см. category.go)
	Category  string    `gorm:"size:50;not null;index" json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsCorrect проверяет, является ли выбранный вариант правильным.
// Сравнение строгое и регистрозависимое: "a" не совпадает с "A".
func (q *Question) IsCorrect(selectedOption string) bool {
	return selectedOption == q.CorrectOption
}

// Option возвращает текст варианта по его букве, пустая строка для неизвестной буквы
func (q *Question) Option(letter string) string {
	switch letter {
	case "A":
		return q.OptionA
	case "B":
		return q.OptionB
	case "C":
		return q.OptionC
	case "D":
		return q.OptionD
	default:
		return ""
	}
}

// IsValidOption проверяет, что буква варианта допустима
func IsValidOption(letter string) bool {
	switch letter {
	case "A", "B", "C", "D":
		return true
	default:
		return false
	}
}
