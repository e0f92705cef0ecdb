package application

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

const (
	minReplyRunes = 10
	maxReplyRunes = 1000
)

func (s *service) List(ctx context.Context, key domain.ResourceKey, filter ReviewFilter, paging Paging) (ReviewPage, domain.Stats, error) {
	paging = s.normalizePaging(paging)
	if !key.Type.Valid() {
		return ReviewPage{
			Reviews:    []domain.Review{},
			Pagination: NewPagination(paging.Page, paging.Limit, 0),
		}, domain.EmptyStats(), nil
	}

	reviews := []domain.Review{}
	if !paging.PastEnd() {
		found, err := s.repo.FindApproved(ctx, key, filter, paging)
		if err != nil {
			return ReviewPage{}, domain.Stats{}, err
		}
		reviews = found
	}
	total, err := s.repo.CountApproved(ctx, key, filter)
	if err != nil {
		return ReviewPage{}, domain.Stats{}, err
	}
	stats, err := s.Stats(ctx, key)
	if err != nil {
		return ReviewPage{}, domain.Stats{}, err
	}

	return ReviewPage{
		Reviews:    reviews,
		Pagination: NewPagination(paging.Page, paging.Limit, total),
	}, stats, nil
}

// Detail hides non-approved reviews behind ErrNotFound.
func (s *service) Detail(ctx context.Context, id string) (*domain.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !review.IsApproved() {
		return nil, ErrNotFound
	}
	return review, nil
}

func (s *service) Submit(ctx context.Context, submission domain.Submission) (*domain.Review, error) {
	submission.Normalize()
	if err := domain.ValidateSubmission(submission); err != nil {
		return nil, err
	}

	review := domain.NewReview(submission, s.now())

	existing, err := s.repo.FindByResourceAndEmail(ctx, review.Key(), review.Author.Email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrDuplicateReview
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, err
	}

	if err := s.repo.Create(ctx, &review); err != nil {
		return nil, err
	}
	s.observer.ReviewSubmitted(review.ResourceType)
	return &review, nil
}

func (s *service) MarkHelpful(ctx context.Context, id string) (int, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if !review.IsApproved() {
		return 0, ErrNotApproved
	}
	count, err := s.repo.IncrementHelpful(ctx, id)
	if err != nil {
		return 0, err
	}
	s.observer.HelpfulVoted()
	return count, nil
}

func (s *service) AddReply(ctx context.Context, id string, cmd AddReplyCommand) (*domain.Reply, error) {
	name := strings.TrimSpace(cmd.AuthorName)
	email := domain.NormalizeEmail(cmd.AuthorEmail)
	content := strings.TrimSpace(cmd.Content)
	if name == "" || email == "" || content == "" {
		return nil, ErrReplyIncomplete
	}
	if n := utf8.RuneCountInString(content); n < minReplyRunes || n > maxReplyRunes {
		return nil, ErrReplyLength
	}

	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !review.IsApproved() {
		return nil, ErrNotApproved
	}

	reply := domain.Reply{
		ID: uuid.NewString(),
		Author: domain.Author{
			Name:   name,
			Email:  email,
			Avatar: strings.TrimSpace(cmd.AuthorAvatar),
		},
		Content:   content,
		CreatedAt: s.now(),
	}
	if _, err := s.repo.AppendReply(ctx, id, reply); err != nil {
		return nil, err
	}
	s.observer.ReplyAdded()
	return &reply, nil
}

// Stats reads through the cache; cache failures fall back to the store.
// Unknown resource types never reach the store or the cache.
func (s *service) Stats(ctx context.Context, key domain.ResourceKey) (domain.Stats, error) {
	if !key.Type.Valid() {
		return domain.EmptyStats(), nil
	}
	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("resourceType", string(key.Type)).Str("resourceId", key.ID).Msg("stats cache read failed")
	} else if ok {
		return cached, nil
	}

	generation := s.statsGeneration(key)
	stats, err := s.repo.ComputeStats(ctx, key)
	if err != nil {
		return domain.Stats{}, err
	}
	s.storeStats(ctx, key, stats, generation)
	return stats, nil
}

func (s *service) statsGeneration(key domain.ResourceKey) uint64 {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.generations[key]
}

// storeStats caches stats unless the key was invalidated after generation was read.
// The check and the write share statsMu with invalidateStats.
func (s *service) storeStats(ctx context.Context, key domain.ResourceKey, stats domain.Stats, generation uint64) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	if s.generations[key] != generation {
		s.logger.Debug().Str("resourceType", string(key.Type)).Str("resourceId", key.ID).Msg("stats changed while computing; not caching")
		return
	}
	if err := s.cache.Set(ctx, key, stats); err != nil {
		s.logger.Warn().Err(err).Str("resourceType", string(key.Type)).Str("resourceId", key.ID).Msg("stats cache write failed")
	}
}

func (s *service) invalidateStats(ctx context.Context, key domain.ResourceKey) {
	s.statsMu.Lock()
	s.generations[key]++
	s.statsMu.Unlock()

	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("resourceType", string(key.Type)).Str("resourceId", key.ID).Msg("stats cache invalidation failed")
	}
}
