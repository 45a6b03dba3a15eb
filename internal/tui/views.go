package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dvdshelf/dvdshelf/internal/tui/styles"
)

// renderTitle renders the single title line above the list
func (m Model) renderTitle() string {
	count := len(m.List.Items())
	noun := "DVDs"
	if count == 1 {
		noun = "DVD"
	}
	return styles.TitleStyle.Render(" DVD Shelf") + styles.DimStyle.Render(fmt.Sprintf(" · %d %s", count, noun))
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: status when loading or status message active
	var left string
	switch {
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.SuccessStyle.Render(m.StatusMsg)
	case m.Loading:
		left = styles.DimStyle.Render("Loading...")
	}

	// Center section: most used actions
	hint := func(k, desc string) string {
		return styles.AccentStyle.Render(k) + styles.DimStyle.Render(" "+desc)
	}
	center := strings.Join([]string{
		hint("a", "add"), hint("e", "edit"), hint("x", "delete"), hint("/", "filter"),
	}, "  ")

	// Right side: "? help" hint
	right := hint("?", "help")

	// Layout: left + centered hints + right
	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		// Not enough space - just left + right
		gap := max(0, m.Width-leftWidth-rightWidth)
		return left + strings.Repeat(" ", gap) + right
	}

	// Center the hints in available space
	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      COLLECTION
  j/k        Up/down               a      Add DVD
  g/Home     First item            e      Edit selected
  G/End      Last item             x      Delete selected
  Ctrl+u/d   Scroll half page      s      Average rating by genre
                                   i      Import CSV file
FILTER                             r      Reload
  /          Filter by title
  Enter      Keep results        OTHER
  Esc        Clear filter          q      Quit
                                   ?      This help

In forms: Tab/Shift+Tab move between fields, Enter saves, Esc cancels.

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// renderDeleteConfirmation renders the delete confirmation modal
func (m Model) renderDeleteConfirmation() string {
	d := m.pendingDelete
	body := lipgloss.JoinVertical(lipgloss.Center,
		styles.ModalTitleStyle.Render("Delete DVD?"),
		fmt.Sprintf("%s (%d)", d.Title, d.ReleaseYear),
		styles.DimStyle.Render(fmt.Sprintf("id %d", d.ID)),
		"",
		"[Y] Yes      [N] No",
	)

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(body))
}
