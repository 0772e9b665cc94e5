package entity

import "strings"

// Question представляет один сгенерированный вопрос с вариантами ответа.
// Вопросы приходят от внешнего процесса извлечения и после этого неизменяемы:
// они живут только внутри активной сессии теста и не сохраняются в БД.
type Question struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"` // буква "A".."D"
}

// OptionLetter возвращает букву варианта по его индексу (0 -> "A")
func OptionLetter(index int) string {
	if index < 0 || index >= 26 {
		return ""
	}
	return string(rune('A' + index))
}

// LetterIndex возвращает индекс варианта по букве ("B" -> 1), -1 для неизвестной буквы
func LetterIndex(letter string) int {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		return -1
	}
	return int(letter[0] - 'A')
}

// OptionsCount возвращает количество вариантов ответа
func (q *Question) OptionsCount() int {
	return len(q.Options)
}

// IsValidLetter проверяет, что буква соответствует одному из вариантов вопроса
func (q *Question) IsValidLetter(letter string) bool {
	idx := LetterIndex(letter)
	return idx >= 0 && idx < len(q.Options)
}

// IsCorrect сравнивает букву ответа с правильной без учета регистра
func (q *Question) IsCorrect(letter string) bool {
	if letter == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(letter), strings.TrimSpace(q.CorrectAnswer))
}

// OptionText возвращает текст варианта по букве; пустая строка, если буква вне диапазона
func (q *Question) OptionText(letter string) string {
	idx := LetterIndex(letter)
	if idx < 0 || idx >= len(q.Options) {
		return ""
	}
	return q.Options[idx]
}
