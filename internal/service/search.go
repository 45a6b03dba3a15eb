package service

import (
	"context"
	"sort"
	"strings"

	"github.com/dvdshelf/dvdshelf/internal/domain"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Search returns DVDs whose title fuzzily matches query, best match first
func (s *ShelfService) Search(ctx context.Context, query string) []domain.DVD {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	dvds := s.collection.ListAll(ctx)
	results := rankByTitle(dvds, query)
	s.logger.Debug("search complete", "query", query, "results", len(results))
	return results
}

// rankByTitle keeps titles containing the query's characters in order
// and sorts them by match quality
func rankByTitle(dvds []domain.DVD, query string) []domain.DVD {
	titles := make([]string, len(dvds))
	for i, d := range dvds {
		titles[i] = strings.ToLower(d.Title)
	}

	query = strings.ToLower(query)
	matches := fuzzy.RankFindFold(query, titles)

	type rankedDVD struct {
		dvd   domain.DVD
		score int
	}

	ranked := make([]rankedDVD, 0, len(matches))
	for _, m := range matches {
		ranked = append(ranked, rankedDVD{
			dvd:   dvds[m.OriginalIndex],
			score: calculateMatchScore(m.Target, query, m.Distance),
		})
	}

	// Sort by score (lower is better); ties keep collection order
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score < ranked[j].score
	})

	results := make([]domain.DVD, len(ranked))
	for i, r := range ranked {
		results[i] = r.dvd
	}
	return results
}

// calculateMatchScore calculates a match score for ranking
// Lower score = better match
func calculateMatchScore(title, query string, distance int) int {
	// Exact match is best
	if title == query {
		return 0
	}

	// Prefix match is very good
	if strings.HasPrefix(title, query) {
		return 10
	}

	// Contains match is good
	if strings.Contains(title, query) {
		return 50
	}

	return 100 + distance
}
