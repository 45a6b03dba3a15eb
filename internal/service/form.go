package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dvdshelf/dvdshelf/internal/domain"
	"github.com/dvdshelf/dvdshelf/internal/validate"
)

// Form holds DVD fields exactly as a user typed them
type Form struct {
	Title       string
	Director    string
	ReleaseYear string
	Genre       string
	Rating      string // Blank or -1 means unknown
}

// FormFromDVD prefills a form with the current values of d
func FormFromDVD(d domain.DVD) Form {
	f := Form{
		Title:       d.Title,
		Director:    d.Director,
		ReleaseYear: strconv.Itoa(d.ReleaseYear),
		Genre:       d.Genre,
	}
	if d.HasRating() {
		f.Rating = strconv.FormatFloat(d.Rating, 'f', -1, 64)
	}
	return f
}

// FieldError reports which form field was rejected and why.
// It matches domain.ErrInvalidDVD with errors.Is.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() []error {
	return []error{domain.ErrInvalidDVD, e.Err}
}

// ParseForm converts a complete form into a DVD, range-checking year and rating
func ParseForm(f Form) (domain.DVD, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return domain.DVD{}, &FieldError{Field: "title", Err: errors.New("title is required")}
	}

	year, err := parseYear(f.ReleaseYear)
	if err != nil {
		return domain.DVD{}, err
	}

	rating := domain.UnknownRating
	if strings.TrimSpace(f.Rating) != "" {
		if rating, err = parseRating(f.Rating); err != nil {
			return domain.DVD{}, err
		}
	}

	return domain.DVD{
		Title:       title,
		Director:    strings.TrimSpace(f.Director),
		ReleaseYear: year,
		Genre:       strings.TrimSpace(f.Genre),
		Rating:      rating,
	}, nil
}

// MergeForm applies the non-blank fields of f on top of current.
// Blank fields keep their current value; supplied year and rating are range-checked.
func MergeForm(current domain.DVD, f Form) (domain.DVD, error) {
	out := current

	if v := strings.TrimSpace(f.Title); v != "" {
		out.Title = v
	}
	if v := strings.TrimSpace(f.Director); v != "" {
		out.Director = v
	}
	if strings.TrimSpace(f.ReleaseYear) != "" {
		year, err := parseYear(f.ReleaseYear)
		if err != nil {
			return domain.DVD{}, err
		}
		out.ReleaseYear = year
	}
	if v := strings.TrimSpace(f.Genre); v != "" {
		out.Genre = v
	}
	if strings.TrimSpace(f.Rating) != "" {
		rating, err := parseRating(f.Rating)
		if err != nil {
			return domain.DVD{}, err
		}
		out.Rating = rating
	}

	return out, nil
}

// ParseID parses a positive record ID
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a valid id", strings.TrimSpace(s))
	}
	return id, nil
}

func parseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &FieldError{Field: "release year", Err: errors.New("release year is required")}
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, &FieldError{Field: "release year", Err: fmt.Errorf("%q is not a whole number", s)}
	}
	if err := validate.Year(year); err != nil {
		return 0, &FieldError{Field: "release year", Err: err}
	}
	return year, nil
}

func parseRating(s string) (float64, error) {
	s = strings.TrimSpace(s)
	rating, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &FieldError{Field: "rating", Err: fmt.Errorf("%q is not a number", s)}
	}
	if err := validate.Rating(rating); err != nil {
		return 0, &FieldError{Field: "rating", Err: err}
	}
	return rating, nil
}
