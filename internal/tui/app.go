package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dvdshelf/dvdshelf/internal/domain"
	"github.com/dvdshelf/dvdshelf/internal/service"
	"github.com/dvdshelf/dvdshelf/internal/tui/components"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
	StateConfirmDelete
)

// promptKind says what the single-line prompt is collecting
type promptKind int

const (
	promptNone promptKind = iota
	promptGenre
	promptImport
)

const (
	// Title line above the list plus the footer line below it
	ChromeHeight = 2

	statusDelay = 4 * time.Second
)

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	Svc *service.ShelfService

	// UI Components
	List   components.DVDList
	Form   components.FormModal
	Prompt components.InputModal

	prompt        promptKind
	pendingDelete domain.DVD

	// Status line
	Loading     bool
	StatusMsg   string
	StatusIsErr bool
	statusSeq   int

	// Dimensions
	Width  int
	Height int

	logger *slog.Logger
}

// NewModel creates a new application model
func NewModel(svc *service.ShelfService, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		State:   StateBrowsing,
		Svc:     svc,
		List:    components.NewDVDList(),
		Form:    components.NewFormModal(),
		Prompt:  components.NewInputModal(),
		Loading: true,
		logger:  logger,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return LoadDVDsCmd(m.Svc)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.List.SetSize(m.Width, m.Height-ChromeHeight)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case DVDsLoadedMsg:
		m.Loading = false
		m.List.SetItems(msg.DVDs)
		return m, nil

	case DVDSavedMsg:
		m.Form.Hide()
		verb := "Updated"
		if msg.Added {
			verb = "Added"
		}
		cmd := m.setStatus(fmt.Sprintf("%s %q (id %d)", verb, msg.DVD.Title, msg.DVD.ID), false)
		return m, tea.Batch(LoadDVDsCmd(m.Svc), cmd)

	case DVDRemovedMsg:
		cmd := m.setStatus(fmt.Sprintf("Removed %q", msg.DVD.Title), false)
		return m, tea.Batch(LoadDVDsCmd(m.Svc), cmd)

	case AverageComputedMsg:
		cmd := m.setStatus(fmt.Sprintf("Average rating for genre '%s': %.2f", msg.Genre, msg.Average), false)
		return m, cmd

	case ImportFinishedMsg:
		cmd := m.importStatus(msg)
		return m, tea.Batch(LoadDVDsCmd(m.Svc), cmd)

	case ErrMsg:
		// Validation problems stay in the open form so the user can fix them
		if m.Form.IsVisible() && errors.Is(msg.Err, domain.ErrInvalidDVD) {
			m.Form.SetError(msg.Err.Error())
			return m, nil
		}
		m.Form.Hide()
		m.logger.Warn("tui operation failed", "context", msg.Context, "error", msg.Err)
		cmd := m.setStatus(msg.Error(), true)
		return m, cmd

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil
	}

	// Forward cursor blink and other ticks to whichever input is active
	return m.routeToActive(msg)
}

func (m *Model) importStatus(msg ImportFinishedMsg) tea.Cmd {
	res := msg.Result
	if msg.Err != nil && res.Imported == 0 {
		m.logger.Warn("csv import failed", "path", msg.Path, "error", msg.Err)
		return m.setStatus("CSV import failed: "+msg.Err.Error(), true)
	}

	text := fmt.Sprintf("%d DVDs imported", res.Imported)
	if res.Skipped > 0 {
		text += fmt.Sprintf(", %d lines skipped", res.Skipped)
	}
	if msg.Err != nil {
		text += " (stopped early: " + msg.Err.Error() + ")"
	}
	return m.setStatus(text, msg.Err != nil)
}

// setStatus shows text in the footer and schedules it to clear
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusSeq, statusDelay)
}

func (m Model) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.Form.IsVisible():
		m.Form, cmd, _ = m.Form.Update(msg)
	case m.Prompt.IsVisible():
		m.Prompt, cmd, _ = m.Prompt.Update(msg)
	}
	return m, cmd
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	if m.State == StateConfirmDelete {
		return m.renderDeleteConfirmation()
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitle(),
		m.List.View(),
		m.renderFooter(),
	)

	if m.Form.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.Form.View())
	}

	if m.Prompt.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.Prompt.View())
	}

	return view
}
