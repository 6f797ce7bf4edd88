// Package render выводит клиентское состояние заметок в терминал.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"notesapp/internal/client/state"
	"notesapp/internal/notes/domain/entities"
)

// GridColumns число карточек в строке сетки.
const GridColumns = 3

const (
	cardWidth    = 32
	listWidth    = 100
	previewRunes = 140
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51")).
			MarginBottom(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231"))

	contentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	badgeColors = map[entities.Category]lipgloss.Color{
		entities.CategoryWork:     lipgloss.Color("33"),
		entities.CategoryPersonal: lipgloss.Color("34"),
		entities.CategoryStudy:    lipgloss.Color("135"),
	}
)

// List выводит заголовок и видимые заметки в режиме состояния.
func List(s *state.State, now time.Time) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(s.HeaderTitle()))
	b.WriteString("\n")

	visible := s.Visible()
	if len(visible) == 0 {
		b.WriteString(dimStyle.Render(s.EmptyMessage()))
		b.WriteString("\n")
		return b.String()
	}

	if s.View() == state.ViewList {
		for _, note := range visible {
			b.WriteString(card(note, now, listWidth))
			b.WriteString("\n")
		}
		return b.String()
	}

	for start := 0; start < len(visible); start += GridColumns {
		end := min(start+GridColumns, len(visible))
		row := make([]string, 0, end-start)
		for _, note := range visible[start:end] {
			row = append(row, card(note, now, cardWidth))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteString("\n")
	}
	return b.String()
}

// Note выводит заметку целиком.
func Note(note *entities.Note, now time.Time) string {
	lines := []string{
		titleStyle.Render(note.Title) + "  " + Badge(note),
		dimStyle.Render(fmt.Sprintf("#%d · created %s · updated %s",
			note.ID, state.FormatDate(note.CreatedAt, now), state.FormatDate(note.LastModified(), now))),
		"",
		contentStyle.Render(note.Content),
	}
	return cardStyle.Width(listWidth).Render(strings.Join(lines, "\n")) + "\n"
}

// Badge выводит метку категории заметки.
func Badge(note *entities.Note) string {
	category := state.DisplayCategory(note)
	return lipgloss.NewStyle().
		Foreground(badgeColors[category]).
		Bold(true).
		Render("[" + state.Title(string(category)) + "]")
}

// Stats выводит счетчики заметок.
func Stats(counters state.Counters) string {
	lines := []string{
		headerStyle.Render("Notes Overview"),
		labelStyle.Render("Total notes:    ") + fmt.Sprint(counters.Total),
		labelStyle.Render("Updated (7d):   ") + fmt.Sprint(counters.Recent),
	}
	for _, category := range entities.Categories() {
		label := fmt.Sprintf("%-16s", state.Title(string(category))+":")
		lines = append(lines, labelStyle.Render(label)+fmt.Sprint(counters.ByCategory[category]))
	}
	return strings.Join(lines, "\n") + "\n"
}

// StoreReport выводит результат проверки базы данных.
func StoreReport(report *entities.StoreReport, now time.Time) string {
	lines := []string{
		successStyle.Render("Database connection OK"),
		labelStyle.Render("Notes in table:        ") + fmt.Sprint(report.Total),
		labelStyle.Render("Notes with no category: ") + fmt.Sprint(report.WithoutCategory),
	}
	if len(report.Samples) > 0 {
		lines = append(lines, "", headerStyle.Render("Sample notes"))
		for _, note := range report.Samples {
			lines = append(lines, fmt.Sprintf("#%d %s %s %s",
				note.ID, titleStyle.Render(note.Title), Badge(note), dimStyle.Render(state.FormatDate(note.LastModified(), now))))
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// Success выводит сообщение об успешной операции.
func Success(msg string) string {
	return successStyle.Render(msg) + "\n"
}

// Error выводит однострочное сообщение об ошибке.
func Error(err error) string {
	return errorStyle.Render("Error: ") + err.Error() + "\n"
}

func card(note *entities.Note, now time.Time, width int) string {
	lines := []string{
		titleStyle.Render(truncate(note.Title, width-12)) + " " + Badge(note),
		contentStyle.Render(truncate(note.Content, previewRunes)),
		dimStyle.Render(fmt.Sprintf("#%d · %s", note.ID, state.FormatDate(note.LastModified(), now))),
	}
	return cardStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if limit <= 1 || len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
