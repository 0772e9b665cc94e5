package service

import "errors"

// Ошибки аутентификации с текстами, которые показываются пользователю.
// Тексты входа намеренно одинаковы для неизвестного email и неверного пароля:
// ответ не должен раскрывать, какое из полей оказалось неверным.
var (
	ErrMissingFields      = errors.New("Please enter name, email, and password.")
	ErrPasswordTooShort   = errors.New("Password must be at least 6 characters long.")
	ErrEmailTaken         = errors.New("User with that email already exists")
	ErrInvalidCredentials = errors.New("Invalid credentials")
)
