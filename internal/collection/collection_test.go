package collection_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/dvdshelf/dvdshelf/internal/adapter"
	"github.com/dvdshelf/dvdshelf/internal/collection"
	"github.com/dvdshelf/dvdshelf/internal/domain"
	"github.com/dvdshelf/dvdshelf/internal/store"
	"github.com/dvdshelf/dvdshelf/internal/store/storetest"
)

type CollectionSuite struct {
	suite.Suite
	ctx context.Context
	c   *collection.Collection
}

func TestCollectionSuite(t *testing.T) {
	suite.Run(t, new(CollectionSuite))
}

func (s *CollectionSuite) SetupTest() {
	s.ctx = context.Background()
	s.c = collection.New(store.NewMemoryStore(), adapter.NullLogger())
}

func (s *CollectionSuite) TestAddThenFind() {
	in := storetest.Inception()
	in.ID = 500

	id := s.c.Add(s.ctx, in)
	s.Require().NotZero(id)
	s.NotEqual(int64(500), id)

	got, ok := s.c.FindByID(s.ctx, id)
	s.Require().True(ok)
	s.Equal(id, got.ID)
	s.True(in.SameFields(got))
}

func (s *CollectionSuite) TestFindAbsent() {
	_, ok := s.c.FindByID(s.ctx, 1)
	s.False(ok)
}

func (s *CollectionSuite) TestUpdate() {
	id := s.c.Add(s.ctx, storetest.Inception())

	repl := storetest.Inception()
	repl.Rating = 9.5
	s.True(s.c.UpdateByID(s.ctx, id, repl))

	got, ok := s.c.FindByID(s.ctx, id)
	s.Require().True(ok)
	s.Equal(9.5, got.Rating)

	s.False(s.c.UpdateByID(s.ctx, id+1, repl))
	s.Len(s.c.ListAll(s.ctx), 1)
}

// TestEndToEnd walks the add / list / average / remove scenario.
func (s *CollectionSuite) TestEndToEnd() {
	s.Empty(s.c.ListAll(s.ctx))

	first := s.c.Add(s.ctx, storetest.Matrix())
	s.c.Add(s.ctx, storetest.Inception())
	s.c.Add(s.ctx, storetest.Titanic())

	s.Len(s.c.ListAll(s.ctx), 3)
	s.InDelta(8.85, s.c.AverageRatingByGenre(s.ctx, "sci-fi"), 1e-9)
	s.Equal(0.0, s.c.AverageRatingByGenre(s.ctx, "Horror"))

	s.True(s.c.RemoveByID(s.ctx, first))
	s.Len(s.c.ListAll(s.ctx), 2)
	s.InDelta(9.0, s.c.AverageRatingByGenre(s.ctx, "Sci-Fi"), 1e-9)

	s.False(s.c.RemoveByID(s.ctx, first))
	s.Len(s.c.ListAll(s.ctx), 2)
}

// failingStore reports errOffline from every operation
type failingStore struct{}

var errOffline = errors.New("connection refused")

func (failingStore) Add(context.Context, domain.DVD) (int64, error) {
	return 0, errOffline
}

func (failingStore) List(context.Context) ([]domain.DVD, error) {
	return nil, errOffline
}

func (failingStore) Get(context.Context, int64) (domain.DVD, error) {
	return domain.DVD{}, errOffline
}

func (failingStore) Remove(context.Context, int64) (bool, error) {
	return false, errOffline
}

func (failingStore) Update(context.Context, int64, domain.DVD) (bool, error) {
	return false, errOffline
}

func (failingStore) AverageRating(context.Context, string) (float64, error) {
	return 0, errOffline
}

func (failingStore) Close() error { return nil }

func TestStorageFailuresDegrade(t *testing.T) {
	ctx := context.Background()
	c := collection.New(failingStore{}, adapter.NullLogger())

	assert.Zero(t, c.Add(ctx, storetest.Titanic()))

	list := c.ListAll(ctx)
	require.NotNil(t, list)
	assert.Empty(t, list)

	_, ok := c.FindByID(ctx, 1)
	assert.False(t, ok)
	assert.False(t, c.RemoveByID(ctx, 1))
	assert.False(t, c.UpdateByID(ctx, 1, storetest.Titanic()))
	assert.Equal(t, 0.0, c.AverageRatingByGenre(ctx, "Drama"))

	_, err := c.Store().List(ctx)
	assert.ErrorIs(t, err, errOffline, "the backend still reports the failure")
}
