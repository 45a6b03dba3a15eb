package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dvdshelf/dvdshelf/internal/service"
	"github.com/dvdshelf/dvdshelf/internal/tui/styles"
)

// Form field order
const (
	FieldTitle = iota
	FieldDirector
	FieldYear
	FieldGenre
	FieldRating
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Director", "Release year", "Genre", "Rating"}

// FormModal edits the five DVD fields
type FormModal struct {
	visible   bool
	title     string
	editingID int64 // 0 when adding
	inputs    [fieldCount]textinput.Model
	focus     int
	err       string
}

// NewFormModal creates a hidden form
func NewFormModal() FormModal {
	var m FormModal
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 200
		ti.Width = 36
		ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
		ti.PlaceholderStyle = styles.DimStyle
		m.inputs[i] = ti
	}
	m.inputs[FieldYear].CharLimit = 4
	m.inputs[FieldYear].Placeholder = "e.g. 1999"
	m.inputs[FieldRating].CharLimit = 5
	m.inputs[FieldRating].Placeholder = "0-10, blank if unknown"
	return m
}

// Show opens the form prefilled with f. editingID is 0 for a new DVD.
func (m *FormModal) Show(title string, f service.Form, editingID int64) tea.Cmd {
	m.visible = true
	m.title = title
	m.editingID = editingID
	m.err = ""

	values := [fieldCount]string{f.Title, f.Director, f.ReleaseYear, f.Genre, f.Rating}
	for i := range m.inputs {
		m.inputs[i].SetValue(values[i])
		m.inputs[i].CursorEnd()
	}
	return m.setFocus(FieldTitle)
}

// Hide dismisses the form
func (m *FormModal) Hide() {
	m.visible = false
	m.err = ""
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

// IsVisible returns whether the form is shown
func (m FormModal) IsVisible() bool {
	return m.visible
}

// EditingID returns the ID being edited, or 0 when adding
func (m FormModal) EditingID() int64 {
	return m.editingID
}

// Focused returns the index of the focused field
func (m FormModal) Focused() int {
	return m.focus
}

// SetError shows a validation message under the fields
func (m *FormModal) SetError(msg string) {
	m.err = msg
}

// Error returns the validation message currently shown
func (m FormModal) Error() string {
	return m.err
}

// Form returns the raw field values
func (m FormModal) Form() service.Form {
	return service.Form{
		Title:       m.inputs[FieldTitle].Value(),
		Director:    m.inputs[FieldDirector].Value(),
		ReleaseYear: m.inputs[FieldYear].Value(),
		Genre:       m.inputs[FieldGenre].Value(),
		Rating:      m.inputs[FieldRating].Value(),
	}
}

// Update handles input events, returns (form, cmd, submitted)
func (m FormModal) Update(msg tea.Msg) (FormModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, FormKeys.Submit):
			return m, nil, true
		case key.Matches(keyMsg, FormKeys.Cancel):
			m.Hide()
			return m, nil, false
		case key.Matches(keyMsg, FormKeys.Next):
			return m, m.setFocus((m.focus + 1) % fieldCount), false
		case key.Matches(keyMsg, FormKeys.Prev):
			return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount), false
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd, false
}

func (m *FormModal) setFocus(i int) tea.Cmd {
	m.focus = i
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	return m.inputs[i].Focus()
}

// View renders the form
func (m FormModal) View() string {
	if !m.visible {
		return ""
	}

	const labelWidth = 14

	var rows []string
	rows = append(rows, styles.ModalTitleStyle.Render(m.title))
	for i, in := range m.inputs {
		labelStyle := styles.FieldLabelStyle
		if i == m.focus {
			labelStyle = styles.FocusedLabelStyle
		}
		label := labelStyle.Width(labelWidth).Render(fieldLabels[i])
		rows = append(rows, label+in.View())
	}

	rows = append(rows, "")
	if m.err != "" {
		rows = append(rows, styles.ErrorStyle.Render(m.err))
	}
	rows = append(rows, styles.DimStyle.Render(strings.Join([]string{
		"tab next", "enter save", "esc cancel",
	}, " · ")))

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
