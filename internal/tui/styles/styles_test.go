package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Heat", 10, "Heat"},
		{"The Matrix Reloaded", 10, "The Mat..."},
		{"Amélie Poulain", 8, "Améli..."},
		{"Heat", 2, "He"},
		{"Heat", 0, ""},
	}

	for _, tt := range tests {
		got := Truncate(tt.in, tt.width)
		assert.Equal(t, tt.want, got)
		assert.LessOrEqual(t, lipgloss.Width(got), max(tt.width, 0))
	}
}

func TestPad(t *testing.T) {
	assert.Equal(t, "Heat  ", Pad("Heat", 6))
	assert.Equal(t, "Amélie", Pad("Amélie", 6))
	assert.Equal(t, 6, lipgloss.Width(Pad("Inception", 6)))
}

func TestRenderListRowFillsWidth(t *testing.T) {
	row := RenderListRow([]RowPart{{Text: "Heat"}}, true, 20)
	assert.Equal(t, 20, lipgloss.Width(row))
}
