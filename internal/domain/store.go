package domain

import "context"

// Store is the storage contract every collection backend implements.
// Failures are returned explicitly; the collection decides how to degrade.
type Store interface {
	// Add stores dvd under a newly assigned ID and returns that ID.
	// Any ID already set on dvd is ignored.
	Add(ctx context.Context, dvd DVD) (int64, error)

	// List returns a copy of every stored DVD
	List(ctx context.Context) ([]DVD, error)

	// Get returns the DVD with the given ID, or ErrDVDNotFound
	Get(ctx context.Context, id int64) (DVD, error)

	// Remove deletes the DVD with the given ID; false if it did not exist
	Remove(ctx context.Context, id int64) (bool, error)

	// Update overwrites every field but the ID; false if the ID does not exist
	Update(ctx context.Context, id int64, dvd DVD) (bool, error)

	// AverageRating averages known ratings for a genre (case-insensitive).
	// Returns 0 when nothing matches.
	AverageRating(ctx context.Context, genre string) (float64, error)

	Close() error
}
