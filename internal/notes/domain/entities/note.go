// Package entities defines the domain entities for the notes service.
package entities

import (
	"errors"
	"fmt"
	"time"
)

// Category представляет категорию заметки.
type Category string

// Допустимые категории заметок.
const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryStudy    Category = "study"
	CategoryNone     Category = ""
)

// DefaultCategory назначается заметке, если категория не передана.
const DefaultCategory = CategoryWork

// ErrInvalidCategory возвращается для значения вне допустимого набора.
var ErrInvalidCategory = errors.New("invalid category")

// Categories возвращает именованные категории в порядке отображения.
func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryStudy}
}

// Valid сообщает, входит ли категория в допустимый набор.
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryStudy, CategoryNone:
		return true
	default:
		return false
	}
}

// NormalizeCategory приводит категорию из запроса к сохраняемому значению.
// Отсутствующая категория заменяется на DefaultCategory, пустая строка сохраняется как есть.
func NormalizeCategory(raw *string) (Category, error) {
	if raw == nil {
		return DefaultCategory, nil
	}
	category := Category(*raw)
	if !category.Valid() {
		return "", fmt.Errorf("%w: %q (allowed: work, personal, study or empty)", ErrInvalidCategory, *raw)
	}
	return category, nil
}

// Note представляет собой заметку.
// Category равна nil только у заметок, сохраненных до введения категорий.
type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  *Category `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewNote создает новую заметку с уже нормализованной категорией.
func NewNote(title, content string, category Category) *Note {
	now := time.Now().UTC()
	return &Note{
		Title:     title,
		Content:   content,
		Category:  &category,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CategoryOrDefault возвращает категорию заметки, подставляя DefaultCategory вместо nil.
func (n *Note) CategoryOrDefault() Category {
	if n.Category == nil {
		return DefaultCategory
	}
	return *n.Category
}

// HasCategory сообщает, совпадает ли категория заметки с заданной без подстановки значения по умолчанию.
func (n *Note) HasCategory(category Category) bool {
	return n.Category != nil && *n.Category == category
}

// LastModified возвращает время последнего изменения заметки.
func (n *Note) LastModified() time.Time {
	if n.UpdatedAt.IsZero() {
		return n.CreatedAt
	}
	return n.UpdatedAt
}

// CategoryPtr возвращает указатель на копию категории.
func CategoryPtr(c Category) *Category {
	return &c
}
