// Package collection is the service layer that owns every DVD record.
//
// A Collection wraps any domain.Store and applies one failure policy: storage
// errors are logged and replaced by the operation's ordinary "nothing there"
// result (no ID, empty list, false, 0). Through the Collection a storage
// outage therefore looks the same as missing data; callers that must tell
// the two apart use Store() directly.
package collection

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dvdshelf/dvdshelf/internal/domain"
)

// Collection mediates between front ends and a storage backend
type Collection struct {
	store  domain.Store
	logger *slog.Logger
}

// New creates a Collection over store
func New(store domain.Store, logger *slog.Logger) *Collection {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection{store: store, logger: logger}
}

// Store returns the backend, whose methods report failures explicitly
func (c *Collection) Store() domain.Store {
	return c.store
}

// Add stores dvd under a new ID and returns it. Returns 0 if storage failed.
// The input ID is ignored and no validation is performed.
func (c *Collection) Add(ctx context.Context, dvd domain.DVD) int64 {
	id, err := c.store.Add(ctx, dvd)
	if err != nil {
		c.logger.Error("failed to add dvd", "error", err, "title", dvd.Title)
		return 0
	}
	c.logger.Debug("added dvd", "id", id, "title", dvd.Title)
	return id
}

// ListAll returns a snapshot of every DVD
func (c *Collection) ListAll(ctx context.Context) []domain.DVD {
	dvds, err := c.store.List(ctx)
	if err != nil {
		c.logger.Error("failed to list dvds", "error", err)
		return []domain.DVD{}
	}
	return dvds
}

// FindByID returns the DVD with id; ok is false if there is none
func (c *Collection) FindByID(ctx context.Context, id int64) (domain.DVD, bool) {
	dvd, err := c.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrDVDNotFound) {
			c.logger.Error("failed to find dvd", "error", err, "id", id)
		}
		return domain.DVD{}, false
	}
	return dvd, true
}

// RemoveByID deletes the DVD with id and reports whether it existed
func (c *Collection) RemoveByID(ctx context.Context, id int64) bool {
	removed, err := c.store.Remove(ctx, id)
	if err != nil {
		c.logger.Error("failed to remove dvd", "error", err, "id", id)
		return false
	}
	if removed {
		c.logger.Info("removed dvd", "id", id)
	}
	return removed
}

// UpdateByID overwrites every field of the DVD with id except the ID itself
func (c *Collection) UpdateByID(ctx context.Context, id int64, dvd domain.DVD) bool {
	updated, err := c.store.Update(ctx, id, dvd)
	if err != nil {
		c.logger.Error("failed to update dvd", "error", err, "id", id)
		return false
	}
	if updated {
		c.logger.Info("updated dvd", "id", id)
	}
	return updated
}

// AverageRatingByGenre averages known ratings for genre, matched
// case-insensitively. Unknown ratings (-1) are left out. Returns 0 when no
// DVD matches, which cannot be told apart from a true average of 0.
func (c *Collection) AverageRatingByGenre(ctx context.Context, genre string) float64 {
	avg, err := c.store.AverageRating(ctx, genre)
	if err != nil {
		c.logger.Error("failed to compute average rating", "error", err, "genre", genre)
		return 0
	}
	return avg
}
