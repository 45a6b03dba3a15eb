package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dvdshelf/dvdshelf/internal/service"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle state-specific keys
	switch m.State {
	case StateHelp:
		// Any key returns
		m.State = StateBrowsing
		return m, nil

	case StateConfirmDelete:
		switch {
		case key.Matches(msg, Keys.Confirm):
			m.State = StateBrowsing
			return m, RemoveDVDCmd(m.Svc, m.pendingDelete)
		case key.Matches(msg, Keys.Deny):
			m.State = StateBrowsing
		}
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	// Filter typing owns every key until accepted or cleared
	if m.List.IsFilterTyping() {
		var cmd tea.Cmd
		m.List, cmd = m.List.Update(msg)
		return m, cmd
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.List.IsFiltering() {
			m.List.ClearFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.Filter):
		cmd := m.List.StartFilter()
		return m, cmd

	case key.Matches(msg, Keys.Add):
		cmd := m.Form.Show("Add DVD", service.Form{}, 0)
		return m, cmd

	case key.Matches(msg, Keys.Edit):
		dvd, ok := m.List.Selected()
		if !ok {
			return m, nil
		}
		cmd := m.Form.Show("Edit DVD", service.FormFromDVD(dvd), dvd.ID)
		return m, cmd

	case key.Matches(msg, Keys.Delete):
		dvd, ok := m.List.Selected()
		if !ok {
			return m, nil
		}
		m.pendingDelete = dvd
		m.State = StateConfirmDelete
		return m, nil

	case key.Matches(msg, Keys.Average):
		m.prompt = promptGenre
		cmd := m.Prompt.Show("Average rating by genre", "Genre")
		return m, cmd

	case key.Matches(msg, Keys.Import):
		m.prompt = promptImport
		cmd := m.Prompt.Show("Import DVDs from CSV", "/path/to/dvds.csv")
		return m, cmd

	case key.Matches(msg, Keys.Refresh):
		m.Loading = true
		return m, LoadDVDsCmd(m.Svc)
	}

	// Everything else moves the cursor
	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}

// routeToModal sends the key to a visible modal and acts on submission
func (m Model) routeToModal(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if m.Form.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.Form, cmd, submitted = m.Form.Update(msg)
		if !submitted {
			return true, m, cmd
		}

		m.Form.SetError("")
		if id := m.Form.EditingID(); id != 0 {
			return true, m, ReplaceDVDCmd(m.Svc, id, m.Form.Form())
		}
		return true, m, AddDVDCmd(m.Svc, m.Form.Form())
	}

	if m.Prompt.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.Prompt, cmd, submitted = m.Prompt.Update(msg)
		if !submitted {
			return true, m, cmd
		}

		value := strings.TrimSpace(m.Prompt.Value())
		kind := m.prompt
		m.Prompt.Hide()
		m.prompt = promptNone
		if value == "" {
			return true, m, nil
		}

		switch kind {
		case promptGenre:
			return true, m, AverageRatingCmd(m.Svc, value)
		case promptImport:
			m.Loading = true
			return true, m, ImportCSVCmd(m.Svc, value)
		}
		return true, m, nil
	}

	return false, m, nil
}
