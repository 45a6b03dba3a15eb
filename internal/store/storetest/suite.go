// Package storetest runs the domain.Store contract against any backend.
package storetest

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/dvdshelf/dvdshelf/internal/domain"
)

// ContractSuite exercises a domain.Store. NewStore must return an empty store.
type ContractSuite struct {
	suite.Suite
	NewStore func() domain.Store

	store domain.Store
	ctx   context.Context
}

func (s *ContractSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.NewStore()
}

func (s *ContractSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func Matrix() domain.DVD {
	return domain.DVD{Title: "The Matrix", Director: "Wachowski", ReleaseYear: 1999, Genre: "Sci-Fi", Rating: 8.7}
}

func Inception() domain.DVD {
	return domain.DVD{Title: "Inception", Director: "Nolan", ReleaseYear: 2010, Genre: "Sci-Fi", Rating: 9.0}
}

func Titanic() domain.DVD {
	return domain.DVD{Title: "Titanic", Director: "Cameron", ReleaseYear: 1997, Genre: "Drama", Rating: 7.8}
}

func (s *ContractSuite) add(d domain.DVD) int64 {
	id, err := s.store.Add(s.ctx, d)
	s.Require().NoError(err)
	return id
}

func (s *ContractSuite) TestAddAssignsFreshIDs() {
	in := Matrix()
	in.ID = 99

	seen := map[int64]bool{}
	for _, d := range []domain.DVD{in, Inception(), Titanic()} {
		id := s.add(d)
		s.NotZero(id)
		s.False(seen[id], "id %d assigned twice", id)
		seen[id] = true
	}

	s.Run("stored fields match input except id", func() {
		id := s.add(in)
		got, err := s.store.Get(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(id, got.ID)
		s.True(in.SameFields(got))
	})
}

func (s *ContractSuite) TestListReturnsSnapshot() {
	s.add(Matrix())
	s.add(Inception())

	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)

	s.add(Titanic())
	list[0].Title = "mutated"

	again, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(again, 3)
	s.Len(list, 2)
	for _, d := range again {
		s.NotEqual("mutated", d.Title)
	}
}

func (s *ContractSuite) TestListKeepsInsertionOrderAfterUpdate() {
	first := s.add(Matrix())
	second := s.add(Inception())
	third := s.add(Titanic())

	updated := Matrix()
	updated.Title = "The Matrix (Remastered)"
	ok, err := s.store.Update(s.ctx, first, updated)
	s.Require().NoError(err)
	s.Require().True(ok)

	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal([]int64{first, second, third}, []int64{list[0].ID, list[1].ID, list[2].ID})
	s.Equal("The Matrix (Remastered)", list[0].Title)
}

func (s *ContractSuite) TestListEmpty() {
	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *ContractSuite) TestGetUnknownID() {
	_, err := s.store.Get(s.ctx, 12345)
	s.ErrorIs(err, domain.ErrDVDNotFound)
}

func (s *ContractSuite) TestRemove() {
	first := s.add(Matrix())
	s.add(Inception())

	s.Run("removes present id", func() {
		ok, err := s.store.Remove(s.ctx, first)
		s.Require().NoError(err)
		s.True(ok)

		_, err = s.store.Get(s.ctx, first)
		s.ErrorIs(err, domain.ErrDVDNotFound)
	})

	s.Run("second removal reports absent and changes nothing", func() {
		before, err := s.store.List(s.ctx)
		s.Require().NoError(err)

		ok, err := s.store.Remove(s.ctx, first)
		s.Require().NoError(err)
		s.False(ok)

		after, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Equal(before, after)
	})

	s.Run("never-added id", func() {
		ok, err := s.store.Remove(s.ctx, 9999)
		s.Require().NoError(err)
		s.False(ok)
	})
}

func (s *ContractSuite) TestRemovedIDIsNotReused() {
	id := s.add(Matrix())
	_, err := s.store.Remove(s.ctx, id)
	s.Require().NoError(err)

	next := s.add(Inception())
	s.NotEqual(id, next)
}

func (s *ContractSuite) TestUpdate() {
	id := s.add(Inception())

	s.Run("overwrites every field but id", func() {
		repl := domain.DVD{ID: 777, Title: "Inception (Director's Cut)", Director: "C. Nolan", ReleaseYear: 2011, Genre: "Thriller", Rating: 9.5}
		ok, err := s.store.Update(s.ctx, id, repl)
		s.Require().NoError(err)
		s.True(ok)

		got, err := s.store.Get(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(id, got.ID)
		s.True(repl.SameFields(got))
	})

	s.Run("absent id mutates nothing", func() {
		before, err := s.store.List(s.ctx)
		s.Require().NoError(err)

		ok, err := s.store.Update(s.ctx, id+100, Titanic())
		s.Require().NoError(err)
		s.False(ok)

		after, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Equal(before, after)
	})
}

func (s *ContractSuite) TestAverageRating() {
	s.Run("no records", func() {
		avg, err := s.store.AverageRating(s.ctx, "Sci-Fi")
		s.Require().NoError(err)
		s.Equal(0.0, avg)
	})

	s.add(Matrix())
	s.add(Inception())
	s.add(Titanic())

	s.Run("genre match is case-insensitive", func() {
		for _, g := range []string{"Sci-Fi", "sci-fi", "SCI-FI"} {
			avg, err := s.store.AverageRating(s.ctx, g)
			s.Require().NoError(err)
			s.InDelta(8.85, avg, 1e-9, g)
		}
	})

	s.Run("unknown ratings are excluded", func() {
		unrated := Matrix()
		unrated.Rating = domain.UnknownRating
		s.add(unrated)

		avg, err := s.store.AverageRating(s.ctx, "sci-fi")
		s.Require().NoError(err)
		s.InDelta(8.85, avg, 1e-9)
	})

	s.Run("unknown genre", func() {
		avg, err := s.store.AverageRating(s.ctx, "Western")
		s.Require().NoError(err)
		s.Equal(0.0, avg)
	})

	s.Run("genre with only unknown ratings", func() {
		doc := domain.DVD{Title: "Unrated Doc", Genre: "Documentary", ReleaseYear: 2001, Rating: domain.UnknownRating}
		s.add(doc)

		avg, err := s.store.AverageRating(s.ctx, "Documentary")
		s.Require().NoError(err)
		s.Equal(0.0, avg)
	})
}
