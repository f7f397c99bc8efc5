package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestion_IsCorrect(t *testing.T) {
	question := &Question{
		QuestionText:  "What is the capital of France?",
		OptionA:       "Paris",
		OptionB:       "London",
		OptionC:       "Berlin",
		OptionD:       "Madrid",
		CorrectOption: "A",
	}

	assert.True(t, question.IsCorrect("A"))
	assert.False(t, question.IsCorrect("B"))
	assert.False(t, question.IsCorrect("C"))
	assert.False(t, question.IsCorrect("D"))
}

func TestQuestion_IsCorrect_CaseSensitive(t *testing.T) {
	question := &Question{CorrectOption: "A"}

	// Сравнение строгое: строчная буква не засчитывается
	assert.False(t, question.IsCorrect("a"))
	assert.False(t, question.IsCorrect(" A"))
	assert.False(t, question.IsCorrect(""))
}

func TestQuestion_Option(t *testing.T) {
	question := &Question{
		OptionA: "Paris",
		OptionB: "London",
		OptionC: "Berlin",
		OptionD: "Madrid",
	}

	assert.Equal(t, "Paris", question.Option("A"))
	assert.Equal(t, "London", question.Option("B"))
	assert.Equal(t, "Berlin", question.Option("C"))
	assert.Equal(t, "Madrid", question.Option("D"))
	assert.Equal(t, "", question.Option("E"))
	assert.Equal(t, "", question.Option("a"))
}

func TestIsValidOption(t *testing.T) {
	assert.True(t, IsValidOption("A"))
	assert.True(t, IsValidOption("B"))
	assert.True(t, IsValidOption("C"))
	assert.True(t, IsValidOption("D"))

	assert.False(t, IsValidOption("a"))
	assert.False(t, IsValidOption("E"))
	assert.False(t, IsValidOption(""))
	assert.False(t, IsValidOption("AB"))
}
