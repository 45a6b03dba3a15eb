// Package validate holds the range checks applied to user-entered DVD fields.
// The collection itself never calls these; front ends do before Add/Update.
package validate

import (
	"fmt"
	"time"
)

// FirstFilmYear is the earliest accepted release year
const FirstFilmYear = 1895

const (
	minRating     = 0.0
	maxRating     = 10.0
	unknownRating = -1.0
)

// IsValidYear reports whether year lies between 1895 and the current year
func IsValidYear(year int) bool {
	return year >= FirstFilmYear && year <= time.Now().Year()
}

// IsValidRating reports whether rating is -1 (unknown) or within 0-10
func IsValidRating(rating float64) bool {
	return rating == unknownRating || (rating >= minRating && rating <= maxRating)
}

// Year returns an error describing the accepted range when year is invalid
func Year(year int) error {
	if !IsValidYear(year) {
		return fmt.Errorf("release year %d must be between %d and %d", year, FirstFilmYear, time.Now().Year())
	}
	return nil
}

// Rating returns an error describing the accepted values when rating is invalid
func Rating(rating float64) error {
	if !IsValidRating(rating) {
		return fmt.Errorf("rating %g must be -1 (unknown) or between %g and %g", rating, minRating, maxRating)
	}
	return nil
}
