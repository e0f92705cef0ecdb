package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/wayfarer-hub/travel-api/internal/review/application"
	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

type reviewCreator interface {
	Create(ctx context.Context, review *domain.Review) error
}

type insertResult struct {
	inserted map[domain.Status]int
	skipped  int
}

func (r insertResult) total() int {
	n := 0
	for _, c := range r.inserted {
		n += c
	}
	return n
}

// insertReviews writes reviews one by one. Reviews whose author already
// reviewed the resource are counted as skipped, so re-running without -reset
// only fills the gaps.
func insertReviews(ctx context.Context, repo reviewCreator, reviews []domain.Review) (insertResult, error) {
	result := insertResult{inserted: make(map[domain.Status]int)}
	for i := range reviews {
		err := repo.Create(ctx, &reviews[i])
		if errors.Is(err, application.ErrDuplicateReview) {
			result.skipped++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("insert review %d: %w", i, err)
		}
		result.inserted[reviews[i].Status]++
	}
	return result, nil
}
