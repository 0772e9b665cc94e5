package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, неверные учетные данные).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, повторная регистрация email).
	ErrConflict = errors.New("resource state conflict")

	// ErrProcessing используется для сбоев внешнего процесса извлечения
	// (таймаут, ненулевой код выхода, error-поле в его ответе).
	ErrProcessing = errors.New("processing failed")

	// ErrBadPayload используется, когда вывод внешнего процесса не является корректным JSON.
	// Отличается от ErrProcessing: процесс завершился, но его вывод нечитаем.
	ErrBadPayload = errors.New("invalid payload")
)
