package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/dvdshelf/dvdshelf/internal/domain"
	"github.com/dvdshelf/dvdshelf/internal/tui/styles"
)

// Layout constants for the list
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Column header plus the "↑ more" and "↓ more" lines
	ChromeLines = 3
)

// Fixed column widths; title and director share what remains
const (
	idWidth     = 5
	yearWidth   = 6
	genreWidth  = 12
	ratingWidth = 8
)

// DVDList is a scrollable, filterable table of DVDs
type DVDList struct {
	dvds []domain.DVD

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width  int
	height int

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into dvds
}

// NewDVDList creates an empty list
func NewDVDList() DVDList {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return DVDList{filterInput: ti}
}

// SetItems replaces the list contents, keeping the selection on the same DVD when it still exists
func (c *DVDList) SetItems(dvds []domain.DVD) {
	selected, hadSelection := c.Selected()

	c.dvds = dvds
	if c.filterActive {
		c.applyFilter()
	}

	c.cursor = 0
	if hadSelection {
		for i := 0; i < c.ItemCount(); i++ {
			if c.dvds[c.mapIndex(i)].ID == selected.ID {
				c.cursor = i
				break
			}
		}
	}
	c.clampCursor()
	c.ensureVisible()
}

// Items returns every DVD, ignoring the filter
func (c DVDList) Items() []domain.DVD {
	return c.dvds
}

// SetSize sets the outer size including the border
func (c *DVDList) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

// Selected returns the DVD under the cursor
func (c DVDList) Selected() (domain.DVD, bool) {
	if c.cursor >= c.ItemCount() {
		return domain.DVD{}, false
	}
	return c.dvds[c.mapIndex(c.cursor)], true
}

// ItemCount returns the number of rows after filtering
func (c DVDList) ItemCount() int {
	if c.filteredIdx != nil {
		return len(c.filteredIdx)
	}
	return len(c.dvds)
}

// StartFilter activates the filter input
func (c *DVDList) StartFilter() tea.Cmd {
	c.filterActive = true
	c.recalcMaxVisible()
	return c.filterInput.Focus()
}

// IsFiltering returns true if filter mode is active
func (c DVDList) IsFiltering() bool {
	return c.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (c DVDList) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all items
func (c *DVDList) ClearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filteredIdx = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
	c.clampCursor()
	c.ensureVisible()
}

// Update handles filter typing and cursor movement
func (c DVDList) Update(msg tea.Msg) (DVDList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	if c.IsFilterTyping() {
		switch {
		case key.Matches(keyMsg, ListKeys.Escape):
			c.ClearFilter()
			return c, nil
		case key.Matches(keyMsg, ListKeys.Accept):
			// Keep the results and go back to navigating them
			c.filterInput.Blur()
			return c, nil
		case key.Matches(keyMsg, ListKeys.Erase) && c.filterInput.Value() == "":
			c.ClearFilter()
			return c, nil
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return c, cmd
	}

	count := c.ItemCount()
	if count == 0 {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, ListKeys.Down):
		c.cursor++
	case key.Matches(keyMsg, ListKeys.Up):
		c.cursor--
	case key.Matches(keyMsg, ListKeys.Home):
		c.cursor = 0
	case key.Matches(keyMsg, ListKeys.End):
		c.cursor = count - 1
	case key.Matches(keyMsg, ListKeys.HalfDown):
		c.cursor += max(1, c.maxVisible/2)
	case key.Matches(keyMsg, ListKeys.HalfUp):
		c.cursor -= max(1, c.maxVisible/2)
	}
	c.clampCursor()
	c.ensureVisible()
	return c, nil
}

func (c *DVDList) applyFilter() {
	query := c.filterInput.Value()
	c.filterQuery = query

	if query == "" {
		c.filteredIdx = nil
		return
	}

	lowerTitles := make([]string, len(c.dvds))
	for i, d := range c.dvds {
		lowerTitles[i] = strings.ToLower(d.Title)
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTitles)

	c.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		c.filteredIdx[i] = match.Index
	}

	// Reset cursor to best match
	c.cursor = 0
	c.offset = 0
}

func (c DVDList) mapIndex(i int) int {
	if c.filteredIdx != nil && i < len(c.filteredIdx) {
		return c.filteredIdx[i]
	}
	return i
}

func (c *DVDList) clampCursor() {
	c.cursor = min(c.cursor, c.ItemCount()-1)
	c.cursor = max(c.cursor, 0)
}

func (c *DVDList) recalcMaxVisible() {
	c.maxVisible = c.height - BorderHeight - ChromeLines
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *DVDList) ensureVisible() {
	// Don't adjust offset if size hasn't been set yet
	if c.height <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

// Rendering

// View renders the bordered table
func (c DVDList) View() string {
	style := styles.ActiveBorder
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(max(0, c.width-frameW)).
		Height(max(0, c.height-frameH)).
		Render(c.renderContent())
}

func (c DVDList) renderContent() string {
	itemWidth := max(c.width-BorderWidth, 40)
	header := c.renderHeader(itemWidth)

	count := c.ItemCount()
	if count == 0 {
		emptyMsg := styles.DimStyle.Render("No DVDs yet. Press a to add one or i to import a CSV file.")
		if c.filterActive && c.filterQuery != "" {
			emptyMsg = styles.DimStyle.Render("No matches")
		}
		content := header + "\n \n" + emptyMsg
		if c.filterActive {
			content += "\n" + c.renderFilterBar()
		}
		return content
	}

	end := min(c.offset+c.maxVisible, count)

	lines := make([]string, 0, end-c.offset)
	for i := c.offset; i < end; i++ {
		lines = append(lines, renderDVDRow(c.dvds[c.mapIndex(i)], i == c.cursor, itemWidth))
	}

	// Always reserve the indicator lines so rows don't shift while scrolling
	above := " "
	if c.offset > 0 {
		above = styles.DimStyle.Render("↑ more")
	}
	below := " "
	if end < count {
		below = styles.DimStyle.Render("↓ more")
	}

	content := header + "\n" + above + "\n" + strings.Join(lines, "\n") + "\n" + below
	if c.filterActive {
		content += "\n" + c.renderFilterBar()
	}
	return content
}

// flexWidths splits the row width left after fixed columns between title and director
func flexWidths(width int) (title, director int) {
	// Two cells of row margin plus one space between each of the six columns
	rest := width - 2 - idWidth - yearWidth - genreWidth - ratingWidth - 5
	rest = max(rest, 20)
	title = rest * 3 / 5
	return title, rest - title
}

func (c DVDList) renderHeader(width int) string {
	titleW, directorW := flexWidths(width)
	cols := []string{
		styles.Pad("ID", idWidth),
		styles.Pad("Title", titleW),
		styles.Pad("Year", yearWidth),
		styles.Pad("Director", directorW),
		styles.Pad("Genre", genreWidth),
		styles.Pad("Rating", ratingWidth),
	}
	return " " + styles.HeaderStyle.Render(strings.Join(cols, " "))
}

func renderDVDRow(d domain.DVD, selected bool, width int) string {
	titleW, directorW := flexWidths(width)

	rating := d.FormattedRating()
	ratingFg := styles.Amber
	if !d.HasRating() {
		rating = "-"
		ratingFg = styles.DimGray
	}
	dim := styles.DimGray

	parts := []styles.RowPart{
		{Text: styles.Pad(strconv.FormatInt(d.ID, 10), idWidth) + " ", Foreground: &dim},
		{Text: styles.Pad(d.Title, titleW) + " "},
		{Text: styles.Pad(strconv.Itoa(d.ReleaseYear), yearWidth) + " "},
		{Text: styles.Pad(d.Director, directorW) + " "},
		{Text: styles.Pad(d.Genre, genreWidth) + " "},
		{Text: styles.Pad(rating, ratingWidth), Foreground: &ratingFg},
	}

	return styles.RenderListRow(parts, selected, width)
}

func (c DVDList) renderFilterBar() string {
	input := c.filterInput.View()

	// Show match count
	countStr := ""
	if c.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", c.ItemCount(), len(c.dvds)))
	}

	return input + countStr
}
