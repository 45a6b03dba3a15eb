package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dvdshelf/dvdshelf/internal/collection"
	"github.com/dvdshelf/dvdshelf/internal/csvimport"
	"github.com/dvdshelf/dvdshelf/internal/domain"
)

// ErrNotStored is returned when the collection did not accept a change.
// With the collection's degrade policy this is all a front end learns about
// a storage failure; details go to the log.
var ErrNotStored = errors.New("the operation did not succeed")

// ShelfService is the command layer shared by every front end.
// It parses and validates user input, then calls the collection.
type ShelfService struct {
	collection *collection.Collection
	importer   *csvimport.Importer
	logger     *slog.Logger
}

// NewShelfService creates a ShelfService over c
func NewShelfService(c *collection.Collection, logger *slog.Logger) *ShelfService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShelfService{
		collection: c,
		importer:   csvimport.New(c, logger),
		logger:     logger,
	}
}

// Add validates f and stores it as a new DVD
func (s *ShelfService) Add(ctx context.Context, f Form) (domain.DVD, error) {
	dvd, err := ParseForm(f)
	if err != nil {
		return domain.DVD{}, err
	}

	id := s.collection.Add(ctx, dvd)
	if id == 0 {
		return domain.DVD{}, ErrNotStored
	}
	dvd.ID = id
	s.logger.Info("added dvd", "id", id, "title", dvd.Title)
	return dvd, nil
}

// List returns every DVD
func (s *ShelfService) List(ctx context.Context) []domain.DVD {
	return s.collection.ListAll(ctx)
}

// Get returns the DVD with id or domain.ErrDVDNotFound
func (s *ShelfService) Get(ctx context.Context, id int64) (domain.DVD, error) {
	dvd, ok := s.collection.FindByID(ctx, id)
	if !ok {
		return domain.DVD{}, domain.ErrDVDNotFound
	}
	return dvd, nil
}

// Update applies the non-blank fields of f to the DVD with id
func (s *ShelfService) Update(ctx context.Context, id int64, f Form) (domain.DVD, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return domain.DVD{}, err
	}

	merged, err := MergeForm(current, f)
	if err != nil {
		return domain.DVD{}, err
	}
	return s.store(ctx, id, merged)
}

// Replace overwrites the DVD with id using a complete form
func (s *ShelfService) Replace(ctx context.Context, id int64, f Form) (domain.DVD, error) {
	dvd, err := ParseForm(f)
	if err != nil {
		return domain.DVD{}, err
	}
	return s.store(ctx, id, dvd)
}

func (s *ShelfService) store(ctx context.Context, id int64, dvd domain.DVD) (domain.DVD, error) {
	if !s.collection.UpdateByID(ctx, id, dvd) {
		// Either the id vanished or storage failed; re-check to report which
		if _, ok := s.collection.FindByID(ctx, id); !ok {
			return domain.DVD{}, domain.ErrDVDNotFound
		}
		return domain.DVD{}, ErrNotStored
	}
	dvd.ID = id
	return dvd, nil
}

// Remove deletes the DVD with id
func (s *ShelfService) Remove(ctx context.Context, id int64) error {
	if !s.collection.RemoveByID(ctx, id) {
		return domain.ErrDVDNotFound
	}
	return nil
}

// AverageRating returns the mean known rating for genre (0 when none)
func (s *ShelfService) AverageRating(ctx context.Context, genre string) float64 {
	return s.collection.AverageRatingByGenre(ctx, strings.TrimSpace(genre))
}

// Import loads a CSV file. Surrounding quotes on the path are ignored so
// paths pasted from a file manager work as typed.
func (s *ShelfService) Import(ctx context.Context, path string) (csvimport.Result, error) {
	path = strings.Trim(strings.TrimSpace(path), `"'`)
	return s.importer.ImportFile(ctx, path)
}
