package application

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

const (
	DefaultPageLimit = 10
	DefaultMaxLimit  = 100
)

// ReviewService describes the public review use-cases.
type ReviewService interface {
	List(ctx context.Context, key domain.ResourceKey, filter ReviewFilter, paging Paging) (ReviewPage, domain.Stats, error)
	Detail(ctx context.Context, id string) (*domain.Review, error)
	Submit(ctx context.Context, submission domain.Submission) (*domain.Review, error)
	MarkHelpful(ctx context.Context, id string) (int, error)
	AddReply(ctx context.Context, id string, cmd AddReplyCommand) (*domain.Reply, error)
	Stats(ctx context.Context, key domain.ResourceKey) (domain.Stats, error)
}

// ModerationService describes moderator use-cases.
type ModerationService interface {
	Moderate(ctx context.Context, id string, cmd ModerateCommand) (*domain.Review, error)
	ListPending(ctx context.Context, paging Paging) (ReviewPage, error)
	Delete(ctx context.Context, id string) error
}

// Observer receives domain events, typically to update metrics.
type Observer interface {
	ReviewSubmitted(resourceType domain.ResourceType)
	HelpfulVoted()
	ReplyAdded()
	Moderated(status domain.Status)
	Deleted()
}

// AddReplyCommand captures a reply posted to an approved review.
type AddReplyCommand struct {
	AuthorName   string
	AuthorEmail  string
	AuthorAvatar string
	Content      string
}

// ModerateCommand captures a moderator decision.
type ModerateCommand struct {
	Status          string
	ModerationNotes string
	Featured        *bool
}

// ReviewPage is one page of reviews with its pagination envelope.
type ReviewPage struct {
	Reviews    []domain.Review
	Pagination Pagination
}

// Pagination is the paging envelope returned to clients.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalReviews int64 `json:"totalReviews"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

// NewPagination derives page counts from a total.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalReviews: total,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}
}

// Dependencies wires the services to their collaborators. Cache and Observer are optional.
type Dependencies struct {
	Repo     ReviewRepository
	Cache    StatsCache
	Observer Observer
	Logger   zerolog.Logger
	MaxLimit int
	Now      func() time.Time
}

type service struct {
	repo     ReviewRepository
	cache    StatsCache
	observer Observer
	logger   zerolog.Logger
	maxLimit int
	now      func() time.Time

	statsMu     sync.Mutex
	generations map[domain.ResourceKey]uint64
}

func newService(deps Dependencies) *service {
	s := &service{
		repo:     deps.Repo,
		cache:    deps.Cache,
		observer: deps.Observer,
		logger:   deps.Logger.With().Str("component", "review-service").Logger(),
		maxLimit: deps.MaxLimit,
		now:      deps.Now,

		generations: make(map[domain.ResourceKey]uint64),
	}
	if s.cache == nil {
		s.cache = noopCache{}
	}
	if s.observer == nil {
		s.observer = noopObserver{}
	}
	if s.maxLimit <= 0 {
		s.maxLimit = DefaultMaxLimit
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// NewServices builds both services over one shared instance, so stats
// invalidations from moderation are visible to concurrent stats reads.
func NewServices(deps Dependencies) (ReviewService, ModerationService) {
	s := newService(deps)
	return s, s
}

// NewReviewService creates the public review service.
func NewReviewService(deps Dependencies) ReviewService {
	return newService(deps)
}

// NewModerationService creates the moderator service.
func NewModerationService(deps Dependencies) ModerationService {
	return newService(deps)
}

// normalizePaging applies defaults and clamps the limit.
func (s *service) normalizePaging(p Paging) Paging {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > s.maxLimit {
		p.Limit = s.maxLimit
	}
	p.SortBy = NormalizeSortField(p.SortBy)
	if p.SortOrder != SortAsc {
		p.SortOrder = SortDesc
	}
	return p
}

type noopCache struct{}

func (noopCache) Get(context.Context, domain.ResourceKey) (domain.Stats, bool, error) {
	return domain.Stats{}, false, nil
}
func (noopCache) Set(context.Context, domain.ResourceKey, domain.Stats) error { return nil }
func (noopCache) Invalidate(context.Context, domain.ResourceKey) error        { return nil }

type noopObserver struct{}

func (noopObserver) ReviewSubmitted(domain.ResourceType) {}
func (noopObserver) HelpfulVoted()                       {}
func (noopObserver) ReplyAdded()                         {}
func (noopObserver) Moderated(domain.Status)             {}
func (noopObserver) Deleted()                            {}
