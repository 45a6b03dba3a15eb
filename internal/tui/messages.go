package tui

import (
	"github.com/dvdshelf/dvdshelf/internal/csvimport"
	"github.com/dvdshelf/dvdshelf/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// DVDsLoadedMsg carries a fresh snapshot of the collection
type DVDsLoadedMsg struct {
	DVDs []domain.DVD
}

// DVDSavedMsg signals that a DVD was added or updated
type DVDSavedMsg struct {
	DVD   domain.DVD
	Added bool
}

// DVDRemovedMsg signals that a DVD was deleted
type DVDRemovedMsg struct {
	DVD domain.DVD
}

// AverageComputedMsg carries the average rating for a genre
type AverageComputedMsg struct {
	Genre   string
	Average float64
}

// ImportFinishedMsg reports a CSV import. Err may be set alongside a partial result.
type ImportFinishedMsg struct {
	Path   string
	Result csvimport.Result
	Err    error
}

// ClearStatusMsg clears the status line if it still shows status Seq
type ClearStatusMsg struct {
	Seq int
}
