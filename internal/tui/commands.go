package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dvdshelf/dvdshelf/internal/domain"
	"github.com/dvdshelf/dvdshelf/internal/service"
)

// Command factories for async operations

const (
	opTimeout     = 30 * time.Second
	importTimeout = 5 * time.Minute
)

// LoadDVDsCmd loads the whole collection
func LoadDVDsCmd(svc *service.ShelfService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		return DVDsLoadedMsg{DVDs: svc.List(ctx)}
	}
}

// AddDVDCmd validates and stores a new DVD
func AddDVDCmd(svc *service.ShelfService, f service.Form) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		dvd, err := svc.Add(ctx, f)
		if err != nil {
			return ErrMsg{Err: err, Context: "adding dvd"}
		}
		return DVDSavedMsg{DVD: dvd, Added: true}
	}
}

// ReplaceDVDCmd overwrites the DVD with id using the edited form
func ReplaceDVDCmd(svc *service.ShelfService, id int64, f service.Form) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		dvd, err := svc.Replace(ctx, id, f)
		if err != nil {
			return ErrMsg{Err: err, Context: "updating dvd"}
		}
		return DVDSavedMsg{DVD: dvd}
	}
}

// RemoveDVDCmd deletes a DVD
func RemoveDVDCmd(svc *service.ShelfService, dvd domain.DVD) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		if err := svc.Remove(ctx, dvd.ID); err != nil {
			return ErrMsg{Err: err, Context: "removing dvd"}
		}
		return DVDRemovedMsg{DVD: dvd}
	}
}

// AverageRatingCmd computes the average rating for a genre
func AverageRatingCmd(svc *service.ShelfService, genre string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		return AverageComputedMsg{Genre: genre, Average: svc.AverageRating(ctx, genre)}
	}
}

// ImportCSVCmd loads DVDs from a CSV file
func ImportCSVCmd(svc *service.ShelfService, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		res, err := svc.Import(ctx, path)
		return ImportFinishedMsg{Path: path, Result: res, Err: err}
	}
}

// ClearStatusCmd returns a command that clears status seq after a delay
func ClearStatusCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
