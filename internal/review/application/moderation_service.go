package application

import (
	"context"
	"strings"

	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

// Moderate moves a review to any of the three statuses. There is no transition guard.
func (s *service) Moderate(ctx context.Context, id string, cmd ModerateCommand) (*domain.Review, error) {
	status := domain.Status(strings.TrimSpace(cmd.Status))
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	updated, err := s.repo.UpdateModeration(ctx, id, ModerationUpdate{
		Status:   status,
		Notes:    cmd.ModerationNotes,
		Featured: cmd.Featured,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, updated.Key())
	s.observer.Moderated(status)
	return updated, nil
}

func (s *service) ListPending(ctx context.Context, paging Paging) (ReviewPage, error) {
	paging = s.normalizePaging(paging)

	reviews := []domain.Review{}
	if !paging.PastEnd() {
		found, err := s.repo.FindPending(ctx, paging)
		if err != nil {
			return ReviewPage{}, err
		}
		reviews = found
	}
	total, err := s.repo.CountPending(ctx)
	if err != nil {
		return ReviewPage{}, err
	}
	return ReviewPage{
		Reviews:    reviews,
		Pagination: NewPagination(paging.Page, paging.Limit, total),
	}, nil
}

// Delete checks existence first so unknown ids surface as ErrNotFound.
func (s *service) Delete(ctx context.Context, id string) error {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx, review.Key())
	s.observer.Deleted()
	return nil
}
