package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"notesapp/internal/notes/app"
	"notesapp/internal/notes/domain/entities"
	"notesapp/internal/notes/ports/repositories"
)

var (
	ErrDatabaseOperation = errors.New("database error")
	ErrCacheUnavailable  = errors.New("cache unavailable")
)

type mockNoteRepository struct {
	mock.Mock
}

func (m *mockNoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	args := m.Called(ctx, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) GetByID(ctx context.Context, id int64) (*entities.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) List(ctx context.Context) ([]*entities.Note, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) ListByCategory(ctx context.Context, category entities.Category) ([]*entities.Note, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) ListWithoutCategory(ctx context.Context) ([]*entities.Note, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) Update(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	args := m.Called(ctx, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockNoteRepository) Count(ctx context.Context) (int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *mockNoteRepository) Seed(ctx context.Context, notes []*entities.Note) error {
	return m.Called(ctx, notes).Error(0)
}

type mockNoteCache struct {
	mock.Mock
}

func (m *mockNoteCache) Get(ctx context.Context, id int64) (*entities.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteCache) Set(ctx context.Context, note *entities.Note) error {
	return m.Called(ctx, note).Error(0)
}

func (m *mockNoteCache) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockNoteCache) Purge(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockNoteCache) Close() error {
	return m.Called().Error(0)
}

func strPtr(s string) *string {
	return &s
}

func storedNote(id int64, category *entities.Category) *entities.Note {
	ts := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	return &entities.Note{
		ID:        id,
		Title:     "Stored",
		Content:   "Stored content",
		Category:  category,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func TestNewNoteUseCase(t *testing.T) {
	useCase := app.NewNoteUseCase(new(mockNoteRepository), nil)

	assert.NotNil(t, useCase, "NewNoteUseCase should return a non-nil object")
}

func TestInvalidCategoryIsInvalidParams(t *testing.T) {
	useCase := app.NewNoteUseCase(new(mockNoteRepository), nil)

	_, err := useCase.CreateNote(context.Background(), "T", "C", strPtr("urgent"))

	require.Error(t, err)
	assert.ErrorIs(t, err, app.ErrInvalidCategory)
	assert.ErrorIs(t, err, app.ErrInvalidParams)
}

func TestCreateNote(t *testing.T) {
	tests := []struct {
		name             string
		title            string
		content          string
		category         *string
		mockSetup        func(*mockNoteRepository)
		expectedCategory entities.Category
		expectedErr      error
	}{
		{
			name:     "absent category defaults to work",
			title:    "Plan",
			content:  "Write it",
			category: nil,
			mockSetup: func(repo *mockNoteRepository) {
				repo.On("Create", mock.Anything, mock.MatchedBy(func(n *entities.Note) bool {
					return n.HasCategory(entities.CategoryWork)
				})).Return(storedNote(1, entities.CategoryPtr(entities.CategoryWork)), nil)
			},
			expectedCategory: entities.CategoryWork,
		},
		{
			name:     "explicit category is kept",
			title:    "Exam",
			content:  "Chapter 5",
			category: strPtr("study"),
			mockSetup: func(repo *mockNoteRepository) {
				repo.On("Create", mock.Anything, mock.MatchedBy(func(n *entities.Note) bool {
					return n.HasCategory(entities.CategoryStudy) && n.Title == "Exam"
				})).Return(storedNote(2, entities.CategoryPtr(entities.CategoryStudy)), nil)
			},
			expectedCategory: entities.CategoryStudy,
		},
		{
			name:     "empty category is stored as empty",
			title:    "Loose",
			content:  "No category",
			category: strPtr(""),
			mockSetup: func(repo *mockNoteRepository) {
				repo.On("Create", mock.Anything, mock.MatchedBy(func(n *entities.Note) bool {
					return n.HasCategory(entities.CategoryNone)
				})).Return(storedNote(3, entities.CategoryPtr(entities.CategoryNone)), nil)
			},
			expectedCategory: entities.CategoryNone,
		},
		{
			name:        "missing title",
			title:       "",
			content:     "Body",
			mockSetup:   func(*mockNoteRepository) {},
			expectedErr: app.ErrInvalidParams,
		},
		{
			name:        "missing content",
			title:       "Title",
			content:     "",
			mockSetup:   func(*mockNoteRepository) {},
			expectedErr: app.ErrInvalidParams,
		},
		{
			name:        "category outside the set",
			title:       "Title",
			content:     "Body",
			category:    strPtr("urgent"),
			mockSetup:   func(*mockNoteRepository) {},
			expectedErr: app.ErrInvalidCategory,
		},
		{
			name:    "store error is wrapped",
			title:   "Title",
			content: "Body",
			mockSetup: func(repo *mockNoteRepository) {
				repo.On("Create", mock.Anything, mock.Anything).Return(nil, ErrDatabaseOperation)
			},
			expectedErr: ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockNoteRepository)
			tt.mockSetup(repo)
			useCase := app.NewNoteUseCase(repo, nil)

			note, err := useCase.CreateNote(context.Background(), tt.title, tt.content, tt.category)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, note)
			} else {
				require.NoError(t, err)
				require.NotNil(t, note)
				require.NotNil(t, note.Category)
				assert.Equal(t, tt.expectedCategory, *note.Category)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestGetNote(t *testing.T) {
	ctx := context.Background()

	t.Run("found without cache", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("GetByID", ctx, int64(1)).Return(storedNote(1, nil), nil)

		note, err := app.NewNoteUseCase(repo, nil).GetNote(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(1), note.ID)
		repo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("GetByID", ctx, int64(9)).Return(nil, nil)

		note, err := app.NewNoteUseCase(repo, nil).GetNote(ctx, 9)

		assert.Nil(t, note)
		assert.ErrorIs(t, err, app.ErrNotFound)
	})

	t.Run("store error", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("GetByID", ctx, int64(1)).Return(nil, ErrDatabaseOperation)

		_, err := app.NewNoteUseCase(repo, nil).GetNote(ctx, 1)

		assert.ErrorIs(t, err, ErrDatabaseOperation)
		assert.NotErrorIs(t, err, app.ErrNotFound)
	})

	t.Run("cache hit skips store", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		noteCache.On("Get", ctx, int64(1)).Return(storedNote(1, nil), nil)

		note, err := app.NewNoteUseCase(repo, noteCache).GetNote(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(1), note.ID)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		noteCache.AssertExpectations(t)
	})

	t.Run("cache miss fills cache", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		stored := storedNote(1, entities.CategoryPtr(entities.CategoryWork))
		noteCache.On("Get", ctx, int64(1)).Return(nil, nil)
		repo.On("GetByID", ctx, int64(1)).Return(stored, nil)
		noteCache.On("Set", ctx, stored).Return(nil)

		note, err := app.NewNoteUseCase(repo, noteCache).GetNote(ctx, 1)

		require.NoError(t, err)
		assert.Same(t, stored, note)
		repo.AssertExpectations(t)
		noteCache.AssertExpectations(t)
	})

	t.Run("delete during read does not refill cache", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		stored := storedNote(1, entities.CategoryPtr(entities.CategoryWork))
		useCase := app.NewNoteUseCase(repo, noteCache)

		noteCache.On("Get", ctx, int64(1)).Return(nil, nil)
		repo.On("GetByID", ctx, int64(1)).Return(stored, nil).Once().Run(func(mock.Arguments) {
			require.NoError(t, useCase.DeleteNote(ctx, 1))
		})
		repo.On("GetByID", ctx, int64(1)).Return(stored, nil).Once()
		repo.On("Delete", ctx, int64(1)).Return(nil)
		noteCache.On("Delete", ctx, int64(1)).Return(nil)

		note, err := useCase.GetNote(ctx, 1)

		require.NoError(t, err)
		assert.Same(t, stored, note)
		noteCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
		noteCache.AssertCalled(t, "Delete", ctx, int64(1))
		repo.AssertExpectations(t)
	})

	t.Run("later reads fill cache again after invalidation", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		stored := storedNote(1, entities.CategoryPtr(entities.CategoryWork))
		useCase := app.NewNoteUseCase(repo, noteCache)

		repo.On("GetByID", ctx, int64(1)).Return(stored, nil)
		repo.On("Update", ctx, mock.Anything).Return(stored, nil)
		noteCache.On("Delete", ctx, int64(1)).Return(nil)
		noteCache.On("Get", ctx, int64(1)).Return(nil, nil)
		noteCache.On("Set", ctx, stored).Return(nil)

		_, err := useCase.UpdateNote(ctx, 1, "T", "C", nil)
		require.NoError(t, err)

		_, err = useCase.GetNote(ctx, 1)
		require.NoError(t, err)
		noteCache.AssertCalled(t, "Set", ctx, stored)
	})

	t.Run("cache failures do not fail the read", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		stored := storedNote(1, nil)
		noteCache.On("Get", ctx, int64(1)).Return(nil, ErrCacheUnavailable)
		repo.On("GetByID", ctx, int64(1)).Return(stored, nil)
		noteCache.On("Set", ctx, stored).Return(ErrCacheUnavailable)

		note, err := app.NewNoteUseCase(repo, noteCache).GetNote(ctx, 1)

		require.NoError(t, err)
		assert.Same(t, stored, note)
	})
}

func TestListNotes(t *testing.T) {
	ctx := context.Background()

	t.Run("all", func(t *testing.T) {
		repo := new(mockNoteRepository)
		notes := []*entities.Note{storedNote(2, nil), storedNote(1, nil)}
		repo.On("List", ctx).Return(notes, nil)

		got, err := app.NewNoteUseCase(repo, nil).ListNotes(ctx)

		require.NoError(t, err)
		assert.Equal(t, notes, got)
	})

	t.Run("by category", func(t *testing.T) {
		repo := new(mockNoteRepository)
		notes := []*entities.Note{storedNote(2, entities.CategoryPtr(entities.CategoryPersonal))}
		repo.On("ListByCategory", ctx, entities.CategoryPersonal).Return(notes, nil)

		got, err := app.NewNoteUseCase(repo, nil).ListNotesByCategory(ctx, "personal")

		require.NoError(t, err)
		assert.Equal(t, notes, got)
	})

	t.Run("store error", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("List", ctx).Return(nil, ErrDatabaseOperation)

		got, err := app.NewNoteUseCase(repo, nil).ListNotes(ctx)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrDatabaseOperation)
	})
}

func TestUpdateNote(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces all fields and defaults category", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		repo.On("GetByID", ctx, int64(5)).Return(storedNote(5, entities.CategoryPtr(entities.CategoryStudy)), nil)
		repo.On("Update", ctx, mock.MatchedBy(func(n *entities.Note) bool {
			return n.ID == 5 && n.Title == "New" && n.Content == "Body" && n.HasCategory(entities.CategoryWork)
		})).Return(storedNote(5, entities.CategoryPtr(entities.CategoryWork)), nil)
		noteCache.On("Delete", ctx, int64(5)).Return(nil)

		note, err := app.NewNoteUseCase(repo, noteCache).UpdateNote(ctx, 5, "New", "Body", nil)

		require.NoError(t, err)
		assert.True(t, note.HasCategory(entities.CategoryWork))
		repo.AssertExpectations(t)
		noteCache.AssertExpectations(t)
	})

	t.Run("missing note is never created", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("GetByID", ctx, int64(5)).Return(nil, nil)

		note, err := app.NewNoteUseCase(repo, nil).UpdateNote(ctx, 5, "New", "Body", nil)

		assert.Nil(t, note)
		assert.ErrorIs(t, err, app.ErrNotFound)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("invalid category", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("GetByID", ctx, int64(5)).Return(storedNote(5, nil), nil)

		_, err := app.NewNoteUseCase(repo, nil).UpdateNote(ctx, 5, "New", "Body", strPtr("misc"))

		assert.ErrorIs(t, err, app.ErrInvalidCategory)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("row vanished between read and write", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("GetByID", ctx, int64(5)).Return(storedNote(5, nil), nil)
		repo.On("Update", ctx, mock.Anything).Return(nil, repositories.ErrNoteNotFound)

		_, err := app.NewNoteUseCase(repo, nil).UpdateNote(ctx, 5, "New", "Body", nil)

		assert.ErrorIs(t, err, app.ErrNotFound)
	})

	t.Run("store error", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("GetByID", ctx, int64(5)).Return(storedNote(5, nil), nil)
		repo.On("Update", ctx, mock.Anything).Return(nil, ErrDatabaseOperation)

		_, err := app.NewNoteUseCase(repo, nil).UpdateNote(ctx, 5, "New", "Body", nil)

		assert.ErrorIs(t, err, ErrDatabaseOperation)
		assert.Contains(t, err.Error(), app.ErrUpdateNote)
	})
}

func TestDeleteNote(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes and invalidates cache", func(t *testing.T) {
		repo := new(mockNoteRepository)
		noteCache := new(mockNoteCache)
		repo.On("GetByID", ctx, int64(3)).Return(storedNote(3, nil), nil)
		repo.On("Delete", ctx, int64(3)).Return(nil)
		noteCache.On("Delete", ctx, int64(3)).Return(ErrCacheUnavailable)

		err := app.NewNoteUseCase(repo, noteCache).DeleteNote(ctx, 3)

		require.NoError(t, err)
		repo.AssertExpectations(t)
		noteCache.AssertExpectations(t)
	})

	t.Run("missing note", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("GetByID", ctx, int64(3)).Return(nil, nil)

		err := app.NewNoteUseCase(repo, nil).DeleteNote(ctx, 3)

		assert.ErrorIs(t, err, app.ErrNotFound)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("store error", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("GetByID", ctx, int64(3)).Return(storedNote(3, nil), nil)
		repo.On("Delete", ctx, int64(3)).Return(ErrDatabaseOperation)

		err := app.NewNoteUseCase(repo, nil).DeleteNote(ctx, 3)

		assert.ErrorIs(t, err, ErrDatabaseOperation)
	})
}

func TestBackfillMissingCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("repairs every null category", func(t *testing.T) {
		repo := new(mockNoteRepository)
		legacy := []*entities.Note{storedNote(1, nil), storedNote(2, nil)}
		repo.On("ListWithoutCategory", ctx).Return(legacy, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(n *entities.Note) bool {
			return n.HasCategory(entities.CategoryWork)
		})).Return(storedNote(0, entities.CategoryPtr(entities.CategoryWork)), nil).Twice()

		repaired, err := app.NewNoteUseCase(repo, nil).BackfillMissingCategories(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, repaired)
		repo.AssertExpectations(t)
	})

	t.Run("no-op when nothing is missing", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("ListWithoutCategory", ctx).Return([]*entities.Note{}, nil)

		repaired, err := app.NewNoteUseCase(repo, nil).BackfillMissingCategories(ctx)

		require.NoError(t, err)
		assert.Zero(t, repaired)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("stops on store error", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("ListWithoutCategory", ctx).Return([]*entities.Note{storedNote(1, nil)}, nil)
		repo.On("Update", ctx, mock.Anything).Return(nil, ErrDatabaseOperation)

		repaired, err := app.NewNoteUseCase(repo, nil).BackfillMissingCategories(ctx)

		assert.Zero(t, repaired)
		assert.ErrorIs(t, err, ErrDatabaseOperation)
	})
}
