package application

import (
	"context"
	"math"

	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

// ReviewRepository is the persistence port for reviews.
// Implementations return ErrNotFound for unknown or malformed ids and
// ErrDuplicateReview when (resourceType, resourceId, author.email) is taken.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	FindByResourceAndEmail(ctx context.Context, key domain.ResourceKey, email string) (*domain.Review, error)
	FindApproved(ctx context.Context, key domain.ResourceKey, filter ReviewFilter, paging Paging) ([]domain.Review, error)
	CountApproved(ctx context.Context, key domain.ResourceKey, filter ReviewFilter) (int64, error)
	FindPending(ctx context.Context, paging Paging) ([]domain.Review, error)
	CountPending(ctx context.Context) (int64, error)
	ComputeStats(ctx context.Context, key domain.ResourceKey) (domain.Stats, error)
	AppendReply(ctx context.Context, id string, reply domain.Reply) (*domain.Review, error)
	IncrementHelpful(ctx context.Context, id string) (int, error)
	UpdateModeration(ctx context.Context, id string, update ModerationUpdate) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// StatsCache stores computed stats per resource. A miss is (zero, false, nil).
type StatsCache interface {
	Get(ctx context.Context, key domain.ResourceKey) (domain.Stats, bool, error)
	Set(ctx context.Context, key domain.ResourceKey, stats domain.Stats) error
	Invalidate(ctx context.Context, key domain.ResourceKey) error
}

// ReviewFilter narrows an approved-review listing.
type ReviewFilter struct {
	MinRating  *int
	MaxRating  *int
	TravelType string
	Verified   *bool
}

// SortOrder is the listing direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Paging controls pagination and ordering.
type Paging struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
}

// Skip returns the number of documents to skip for the page. Offsets that
// do not fit in an int saturate at math.MaxInt.
func (p Paging) Skip() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.PastEnd() {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// PastEnd reports whether the page offset overflows, so no store can hold it.
func (p Paging) PastEnd() bool {
	return p.Limit > 0 && p.Page > 1 && p.Page-1 > math.MaxInt/p.Limit
}

// ModerationUpdate is a partial update applied by moderators.
// Notes are only written when non-empty; Featured only when non-nil.
type ModerationUpdate struct {
	Status   domain.Status
	Notes    string
	Featured *bool
}

var sortableFields = map[string]struct{}{
	"createdAt":    {},
	"updatedAt":    {},
	"rating":       {},
	"helpfulVotes": {},
	"travelDate":   {},
}

// NormalizeSortField maps unknown sort keys to createdAt.
func NormalizeSortField(field string) string {
	if _, ok := sortableFields[field]; ok {
		return field
	}
	return "createdAt"
}
