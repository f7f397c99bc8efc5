package entity

import "strings"

// Категория "General Knowledge" хранится в БД под коротким кодом "GK".
// Нормализация применяется на КАЖДОЙ границе чтения/записи хранилища,
// иначе одна категория молча расщепляется на две.
const (
	CategoryGeneralKnowledge     = "General Knowledge"
	CategoryGeneralKnowledgeCode = "GK"
)

// NormalizeCategory приводит метку категории к внутреннему коду хранения
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == CategoryGeneralKnowledge {
		return CategoryGeneralKnowledgeCode
	}
	return category
}

// DisplayCategory приводит внутренний код категории к отображаемой форме
func DisplayCategory(category string) string {
	if category == CategoryGeneralKnowledgeCode {
		return CategoryGeneralKnowledge
	}
	return category
}
