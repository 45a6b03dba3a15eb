package domain

import (
	"fmt"
	"strconv"
)

// UnknownRating marks a DVD whose rating has not been set
const UnknownRating = -1.0

// DVD is a single entry in the collection
type DVD struct {
	ID          int64   `json:"id"`           // Assigned by the collection; 0 until stored
	Title       string  `json:"title"`        // Required
	Director    string  `json:"director"`     // May be empty
	ReleaseYear int     `json:"release_year"` // Range-checked by callers, not here
	Genre       string  `json:"genre"`        // Compared case-insensitively
	Rating      float64 `json:"rating"`       // 0-10, or UnknownRating
}

// HasRating reports whether the rating is known
func (d DVD) HasRating() bool {
	return d.Rating >= 0
}

// FormattedRating returns the rating for display ("unrated" when unknown)
func (d DVD) FormattedRating() string {
	if !d.HasRating() {
		return "unrated"
	}
	return strconv.FormatFloat(d.Rating, 'f', -1, 64)
}

// String renders a one-line listing entry
func (d DVD) String() string {
	return fmt.Sprintf("%d: %s (%d) - %s - %s - Rating: %s",
		d.ID, d.Title, d.ReleaseYear, d.Director, d.Genre, d.FormattedRating())
}

// SameFields reports whether two DVDs match in every field except ID
func (d DVD) SameFields(other DVD) bool {
	other.ID = d.ID
	return d == other
}
