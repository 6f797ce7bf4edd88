// Package dto содержит структуры запросов и ответов HTTP API заметок.
package dto

// CreateNoteRequest содержит данные для создания заметки.
// Отсутствующая или null категория заменяется на категорию по умолчанию.
type CreateNoteRequest struct {
	Title    string  `json:"title" validate:"required"`
	Content  string  `json:"content" validate:"required"`
	Category *string `json:"category" validate:"omitempty,oneof=work personal study ''"`
}

// UpdateNoteRequest содержит данные для полной замены заметки.
type UpdateNoteRequest struct {
	Title    string  `json:"title" validate:"required"`
	Content  string  `json:"content" validate:"required"`
	Category *string `json:"category" validate:"omitempty,oneof=work personal study ''"`
}

// MessageResponse содержит текстовое подтверждение операции.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse содержит описание ошибки.
type ErrorResponse struct {
	Error string `json:"error"`
}
