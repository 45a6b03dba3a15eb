package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/dvdshelf/dvdshelf/internal/domain"
)

// MemoryStore keeps DVDs in insertion order for the life of the process.
type MemoryStore struct {
	mu     sync.Mutex
	dvds   []domain.DVD
	nextID int64
}

// NewMemoryStore creates an empty store whose first assigned ID is 1
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Add(_ context.Context, dvd domain.DVD) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dvd.ID = s.nextID
	s.nextID++
	s.dvds = append(s.dvds, dvd)
	return dvd.ID, nil
}

func (s *MemoryStore) List(_ context.Context) ([]domain.DVD, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.DVD{}, s.dvds...), nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (domain.DVD, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return s.dvds[i], nil
	}
	return domain.DVD{}, domain.ErrDVDNotFound
}

func (s *MemoryStore) Remove(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.dvds = slices.Delete(s.dvds, i, i+1)
	return true, nil
}

func (s *MemoryStore) Update(_ context.Context, id int64, dvd domain.DVD) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	dvd.ID = id
	s.dvds[i] = dvd
	return true, nil
}

func (s *MemoryStore) AverageRating(_ context.Context, genre string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var avg ratingAverage
	for _, d := range s.dvds {
		avg.observe(d, genre)
	}
	return avg.value(), nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// indexOf returns the slice position of id, or -1. Caller holds mu.
func (s *MemoryStore) indexOf(id int64) int {
	return slices.IndexFunc(s.dvds, func(d domain.DVD) bool { return d.ID == id })
}

// ratingAverage accumulates known ratings for one genre
type ratingAverage struct {
	sum   float64
	count int
}

func (a *ratingAverage) observe(d domain.DVD, genre string) {
	if d.HasRating() && strings.EqualFold(d.Genre, genre) {
		a.sum += d.Rating
		a.count++
	}
}

func (a *ratingAverage) value() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}
