package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wayfarer-hub/travel-api/internal/review/application"
	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

// ReviewRepository implements application.ReviewRepository using in-memory maps.
// The unique (resourceType, resourceId, author.email) key is enforced on Create.
type ReviewRepository struct {
	mu       sync.RWMutex
	byID     map[string]domain.Review
	byAuthor map[uniqueKey]string
}

type uniqueKey struct {
	resourceType domain.ResourceType
	resourceID   string
	email        string
}

// NewReviewRepository constructs an empty repository.
func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{
		byID:     make(map[string]domain.Review),
		byAuthor: make(map[uniqueKey]string),
	}
}

func keyOf(r domain.Review) uniqueKey {
	return uniqueKey{resourceType: r.ResourceType, resourceID: r.ResourceID, email: r.Author.Email}
}

func (m *ReviewRepository) Create(_ context.Context, review *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := keyOf(*review)
	if _, taken := m.byAuthor[key]; taken {
		return application.ErrDuplicateReview
	}

	now := time.Now().UTC()
	if review.ID == "" {
		review.ID = primitive.NewObjectID().Hex()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	if review.UpdatedAt.IsZero() {
		review.UpdatedAt = review.CreatedAt
	}
	m.byID[review.ID] = review.Clone()
	m.byAuthor[key] = review.ID
	return nil
}

func (m *ReviewRepository) FindByID(_ context.Context, id string) (*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	review, ok := m.byID[id]
	if !ok {
		return nil, application.ErrNotFound
	}
	out := review.Clone()
	return &out, nil
}

func (m *ReviewRepository) FindByResourceAndEmail(_ context.Context, key domain.ResourceKey, email string) (*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byAuthor[uniqueKey{resourceType: key.Type, resourceID: key.ID, email: email}]
	if !ok {
		return nil, application.ErrNotFound
	}
	out := m.byID[id].Clone()
	return &out, nil
}

func (m *ReviewRepository) FindApproved(_ context.Context, key domain.ResourceKey, filter application.ReviewFilter, paging application.Paging) ([]domain.Review, error) {
	m.mu.RLock()
	matches := m.collect(func(r domain.Review) bool { return matchesApproved(r, key, filter) })
	m.mu.RUnlock()
	return page(matches, paging), nil
}

func (m *ReviewRepository) CountApproved(_ context.Context, key domain.ResourceKey, filter application.ReviewFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, r := range m.byID {
		if matchesApproved(r, key, filter) {
			n++
		}
	}
	return n, nil
}

func (m *ReviewRepository) FindPending(_ context.Context, paging application.Paging) ([]domain.Review, error) {
	m.mu.RLock()
	matches := m.collect(func(r domain.Review) bool { return r.Status == domain.StatusPending })
	m.mu.RUnlock()
	return page(matches, paging), nil
}

func (m *ReviewRepository) CountPending(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, r := range m.byID {
		if r.Status == domain.StatusPending {
			n++
		}
	}
	return n, nil
}

func (m *ReviewRepository) ComputeStats(_ context.Context, key domain.ResourceKey) (domain.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	histogram := make(map[int]int)
	for _, r := range m.byID {
		if matchesApproved(r, key, application.ReviewFilter{}) {
			histogram[r.Rating]++
		}
	}
	return domain.StatsFromHistogram(histogram), nil
}

func (m *ReviewRepository) AppendReply(_ context.Context, id string, reply domain.Reply) (*domain.Review, error) {
	return m.mutate(id, func(r *domain.Review) {
		r.Replies = append(r.Replies, reply)
	})
}

func (m *ReviewRepository) IncrementHelpful(_ context.Context, id string) (int, error) {
	updated, err := m.mutate(id, func(r *domain.Review) {
		r.HelpfulVotes++
	})
	if err != nil {
		return 0, err
	}
	return updated.HelpfulVotes, nil
}

func (m *ReviewRepository) UpdateModeration(_ context.Context, id string, update application.ModerationUpdate) (*domain.Review, error) {
	return m.mutate(id, func(r *domain.Review) {
		r.Status = update.Status
		if update.Notes != "" {
			r.ModerationNotes = update.Notes
		}
		if update.Featured != nil {
			r.Featured = *update.Featured
		}
	})
}

func (m *ReviewRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.byID[id]
	if !ok {
		return application.ErrNotFound
	}
	delete(m.byID, id)
	delete(m.byAuthor, keyOf(review))
	return nil
}

func (m *ReviewRepository) Ping(context.Context) error {
	return nil
}

func (m *ReviewRepository) mutate(id string, apply func(*domain.Review)) (*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	review, ok := m.byID[id]
	if !ok {
		return nil, application.ErrNotFound
	}
	review = review.Clone()
	apply(&review)
	review.UpdatedAt = time.Now().UTC()
	m.byID[id] = review
	out := review.Clone()
	return &out, nil
}

// collect must be called with the read lock held.
func (m *ReviewRepository) collect(keep func(domain.Review) bool) []domain.Review {
	items := make([]domain.Review, 0)
	for _, r := range m.byID {
		if keep(r) {
			items = append(items, r.Clone())
		}
	}
	return items
}

func matchesApproved(r domain.Review, key domain.ResourceKey, filter application.ReviewFilter) bool {
	if r.Status != domain.StatusApproved || r.ResourceType != key.Type || r.ResourceID != key.ID {
		return false
	}
	if filter.MinRating != nil && r.Rating < *filter.MinRating {
		return false
	}
	if filter.MaxRating != nil && r.Rating > *filter.MaxRating {
		return false
	}
	if filter.TravelType != "" && string(r.TravelType) != filter.TravelType {
		return false
	}
	if filter.Verified != nil && r.Verified != *filter.Verified {
		return false
	}
	return true
}

func page(items []domain.Review, paging application.Paging) []domain.Review {
	field := application.NormalizeSortField(paging.SortBy)
	asc := paging.SortOrder == application.SortAsc
	sort.SliceStable(items, func(i, j int) bool {
		c := compare(items[i], items[j], field)
		if c == 0 {
			c = compareStrings(items[i].ID, items[j].ID)
		}
		if asc {
			return c < 0
		}
		return c > 0
	})

	start := paging.Skip()
	if start < 0 || start >= len(items) {
		return []domain.Review{}
	}
	end := len(items)
	if paging.Limit > 0 && paging.Limit < end-start {
		end = start + paging.Limit
	}
	return items[start:end]
}

func compare(a, b domain.Review, field string) int {
	switch field {
	case "rating":
		return compareInts(a.Rating, b.Rating)
	case "helpfulVotes":
		return compareInts(a.HelpfulVotes, b.HelpfulVotes)
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "travelDate":
		return compareTimePtr(a.TravelDate, b.TravelDate)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareTimePtr orders unset dates first, matching Mongo's null ordering.
func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}
