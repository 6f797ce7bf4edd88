// Package state хранит клиентское состояние списка заметок и применяет к нему фильтры.
package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"notesapp/internal/notes/domain/entities"
)

// FilterAll отключает фильтр по категории.
const FilterAll = "all"

// ViewMode режим отображения списка.
type ViewMode string

// Режимы отображения.
const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

const recentWindow = 7 * 24 * time.Hour

// Ошибки изменения состояния.
var (
	ErrUnknownFilter = errors.New("unknown category filter")
	ErrUnknownView   = errors.New("unknown view mode")
)

// State содержит полный список заметок и активные фильтры.
type State struct {
	notes    []*entities.Note
	category string
	search   string
	view     ViewMode
}

// New создает состояние без фильтров в режиме сетки.
func New(notes []*entities.Note) *State {
	return &State{
		notes:    notes,
		category: FilterAll,
		view:     ViewGrid,
	}
}

// SetNotes заменяет список заметок, например после повторной загрузки.
func (s *State) SetNotes(notes []*entities.Note) {
	s.notes = notes
}

// Notes возвращает полный список без фильтров.
func (s *State) Notes() []*entities.Note {
	return s.notes
}

// SetCategory задает фильтр: FilterAll или одну из именованных категорий.
func (s *State) SetCategory(category string) error {
	if category != FilterAll && !isNamedCategory(category) {
		return fmt.Errorf("%w: %q", ErrUnknownFilter, category)
	}
	s.category = category
	return nil
}

// Category возвращает активный фильтр категории.
func (s *State) Category() string {
	return s.category
}

// SetSearch задает строку поиска.
func (s *State) SetSearch(search string) {
	s.search = search
}

// Search возвращает строку поиска.
func (s *State) Search() string {
	return s.search
}

// SetView задает режим отображения.
func (s *State) SetView(view ViewMode) error {
	if view != ViewGrid && view != ViewList {
		return fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
	s.view = view
	return nil
}

// View возвращает режим отображения.
func (s *State) View() ViewMode {
	return s.view
}

// Visible возвращает заметки, прошедшие фильтр категории и поиск, в исходном порядке.
// Заметки без категории видны только без фильтра категории.
func (s *State) Visible() []*entities.Note {
	query := strings.ToLower(s.search)

	visible := make([]*entities.Note, 0, len(s.notes))
	for _, note := range s.notes {
		if s.category != FilterAll && !note.HasCategory(entities.Category(s.category)) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(note.Title), query) &&
			!strings.Contains(strings.ToLower(note.Content), query) {
			continue
		}
		visible = append(visible, note)
	}
	return visible
}

// EmptyMessage возвращает текст для пустого результата фильтрации.
func (s *State) EmptyMessage() string {
	if s.category == FilterAll {
		return "You don't have any notes yet. Create your first note!"
	}
	return fmt.Sprintf("You don't have any %s notes yet.", s.category)
}

// HeaderTitle возвращает заголовок списка для активного фильтра.
func (s *State) HeaderTitle() string {
	if s.category == FilterAll {
		return "All Notes"
	}
	return Title(s.category) + " Notes"
}

// Counters содержит счетчики по полному списку заметок.
type Counters struct {
	Total      int
	Recent     int
	ByCategory map[entities.Category]int
}

// Counters считает заметки на момент now.
// Недавними считаются заметки, измененные за последние семь дней.
// Заметки без категории и с пустой категорией учитываются как work.
func (s *State) Counters(now time.Time) Counters {
	counters := Counters{
		Total:      len(s.notes),
		ByCategory: make(map[entities.Category]int, len(entities.Categories())),
	}
	for _, category := range entities.Categories() {
		counters.ByCategory[category] = 0
	}

	since := now.Add(-recentWindow)
	for _, note := range s.notes {
		if !note.LastModified().Before(since) {
			counters.Recent++
		}
		counters.ByCategory[DisplayCategory(note)]++
	}
	return counters
}

// DisplayCategory возвращает категорию для бейджа и счетчиков.
// Отсутствующая и пустая категории показываются как категория по умолчанию.
func DisplayCategory(note *entities.Note) entities.Category {
	category := note.CategoryOrDefault()
	if category == entities.CategoryNone {
		return entities.DefaultCategory
	}
	return category
}

// FormatDate форматирует время изменения относительно now.
func FormatDate(t, now time.Time) string {
	t = t.In(now.Location())

	if sameDay(t, now) {
		return "Today, " + t.Format("15:04")
	}
	if sameDay(t, now.AddDate(0, 0, -1)) {
		return "Yesterday"
	}
	return t.Format("Jan 2")
}

// Title возвращает название категории с заглавной буквы.
func Title(category string) string {
	if category == "" {
		return ""
	}
	return strings.ToUpper(category[:1]) + category[1:]
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func isNamedCategory(category string) bool {
	for _, c := range entities.Categories() {
		if string(c) == category {
			return true
		}
	}
	return false
}
