package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionLetter(t *testing.T) {
	assert.Equal(t, "A", OptionLetter(0))
	assert.Equal(t, "D", OptionLetter(3))
	assert.Equal(t, "", OptionLetter(-1))
	assert.Equal(t, "", OptionLetter(26))
}

func TestLetterIndex(t *testing.T) {
	assert.Equal(t, 0, LetterIndex("A"))
	assert.Equal(t, 1, LetterIndex("b"), "регистр буквы не должен иметь значения")
	assert.Equal(t, 3, LetterIndex(" D "))
	assert.Equal(t, -1, LetterIndex(""))
	assert.Equal(t, -1, LetterIndex("AB"))
	assert.Equal(t, -1, LetterIndex("1"))
}

func TestQuestion_IsValidLetter(t *testing.T) {
	q := &Question{
		Text:          "What is 2+2?",
		Options:       []string{"3", "4", "5", "6"},
		CorrectAnswer: "B",
	}

	assert.True(t, q.IsValidLetter("A"))
	assert.True(t, q.IsValidLetter("d"))
	assert.False(t, q.IsValidLetter("E"), "буква за пределами вариантов недопустима")
	assert.False(t, q.IsValidLetter(""))
}

func TestQuestion_IsCorrect(t *testing.T) {
	q := &Question{
		Text:          "What is 2+2?",
		Options:       []string{"3", "4", "5", "6"},
		CorrectAnswer: "B",
	}

	assert.True(t, q.IsCorrect("B"))
	assert.True(t, q.IsCorrect("b"), "сравнение ответа нечувствительно к регистру")
	assert.False(t, q.IsCorrect("A"))
	assert.False(t, q.IsCorrect(""), "пустой ответ всегда неверен")
}

func TestQuestion_OptionText(t *testing.T) {
	q := &Question{
		Options: []string{"red", "green", "blue", "black"},
	}

	assert.Equal(t, "green", q.OptionText("B"))
	assert.Equal(t, "", q.OptionText("E"))
	assert.Equal(t, "", q.OptionText(""))
}
