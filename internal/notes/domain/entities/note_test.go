package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notesapp/internal/notes/domain/entities"
)

func strPtr(s string) *string {
	return &s
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name     string
		raw      *string
		expected entities.Category
		wantErr  bool
	}{
		{name: "absent defaults to work", raw: nil, expected: entities.CategoryWork},
		{name: "work", raw: strPtr("work"), expected: entities.CategoryWork},
		{name: "personal", raw: strPtr("personal"), expected: entities.CategoryPersonal},
		{name: "study", raw: strPtr("study"), expected: entities.CategoryStudy},
		{name: "empty string is kept", raw: strPtr(""), expected: entities.CategoryNone},
		{name: "unknown value", raw: strPtr("shopping"), wantErr: true},
		{name: "case sensitive", raw: strPtr("Work"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, err := entities.NormalizeCategory(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, entities.ErrInvalidCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, category)
		})
	}
}

func TestNewNote(t *testing.T) {
	note := entities.NewNote("Title", "Content", entities.CategoryStudy)

	require.NotNil(t, note.Category)
	assert.Equal(t, entities.CategoryStudy, *note.Category)
	assert.Equal(t, note.CreatedAt, note.UpdatedAt)
	assert.Zero(t, note.ID)
}

func TestNoteCategoryHelpers(t *testing.T) {
	legacy := &entities.Note{Title: "Old"}

	assert.Equal(t, entities.CategoryWork, legacy.CategoryOrDefault())
	assert.False(t, legacy.HasCategory(entities.CategoryWork))

	personal := &entities.Note{Category: entities.CategoryPtr(entities.CategoryPersonal)}
	assert.True(t, personal.HasCategory(entities.CategoryPersonal))
	assert.Equal(t, entities.CategoryPersonal, personal.CategoryOrDefault())
}

func TestNoteLastModified(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	assert.Equal(t, created, (&entities.Note{CreatedAt: created}).LastModified())
	assert.Equal(t, updated, (&entities.Note{CreatedAt: created, UpdatedAt: updated}).LastModified())
}
