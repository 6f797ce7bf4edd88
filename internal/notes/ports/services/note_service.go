// Package services defines service interfaces for the notes service.
package services

import (
	"context"

	"notesapp/internal/notes/domain/entities"
)

// NoteService определяет операции над заметками, доступные транспортному слою.
type NoteService interface {
	ListNotes(ctx context.Context) ([]*entities.Note, error)
	ListNotesByCategory(ctx context.Context, category string) ([]*entities.Note, error)
	GetNote(ctx context.Context, id int64) (*entities.Note, error)
	CreateNote(ctx context.Context, title, content string, category *string) (*entities.Note, error)
	UpdateNote(ctx context.Context, id int64, title, content string, category *string) (*entities.Note, error)
	DeleteNote(ctx context.Context, id int64) error
}
