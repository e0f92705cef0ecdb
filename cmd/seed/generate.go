package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

var seedResources = []domain.ResourceKey{
	{Type: domain.ResourceDestination, ID: "paris-1"},
	{Type: domain.ResourceDestination, ID: "tokyo-2"},
	{Type: domain.ResourceDestination, ID: "lisbon-3"},
	{Type: domain.ResourceGuide, ID: "kyoto-walks"},
	{Type: domain.ResourceGuide, ID: "alps-hiking"},
	{Type: domain.ResourceBlog, ID: "packing-light"},
	{Type: domain.ResourceBlog, ID: "budget-europe"},
}

var seedTravelTypes = []domain.TravelType{
	domain.TravelSolo,
	domain.TravelCouple,
	domain.TravelFamily,
	domain.TravelFriends,
	domain.TravelBusiness,
}

var seedTitles = []string{
	"Exceeded every expectation",
	"Good, with a few caveats",
	"Would not go back",
	"Perfect for a long weekend",
	"Crowded but worth it",
}

var seedPros = []string{"great food", "easy transit", "friendly locals", "good value", "beautiful views"}
var seedCons = []string{"expensive", "crowded", "noisy at night", "hard to book", "rainy season"}

// generateReviews builds count reviews. The same rng seed always yields the same data.
func generateReviews(rng *rand.Rand, count int, now time.Time) []domain.Review {
	reviews := make([]domain.Review, 0, count)
	for i := 0; i < count; i++ {
		resource := seedResources[i%len(seedResources)]
		rating := domain.MinRating + rng.Intn(domain.MaxRating)
		createdAt := now.Add(-time.Duration(i*7+rng.Intn(7)) * time.Hour)
		travelDate := createdAt.AddDate(0, 0, -(7 + rng.Intn(90)))

		review := domain.Review{
			ResourceType: resource.Type,
			ResourceID:   resource.ID,
			Author: domain.Author{
				Name:  fmt.Sprintf("Traveller %03d", i),
				Email: fmt.Sprintf("traveller%03d@example.com", i),
			},
			Rating:         rating,
			Title:          seedTitles[rng.Intn(len(seedTitles))],
			Content:        fmt.Sprintf("Spent %d days here and rated it %d out of 5 overall.", 2+rng.Intn(12), rating),
			Pros:           pick(rng, seedPros, rng.Intn(3)),
			Cons:           pick(rng, seedCons, rng.Intn(3)),
			TravelDate:     &travelDate,
			TravelType:     seedTravelTypes[rng.Intn(len(seedTravelTypes))],
			WouldRecommend: rating >= 3,
			Replies:        []domain.Reply{},
			Images:         []domain.Image{},
			Verified:       rng.Intn(4) == 0,
			Status:         seedStatus(rng),
			CreatedAt:      createdAt,
			UpdatedAt:      createdAt,
		}

		if review.Status == domain.StatusApproved {
			review.HelpfulVotes = rng.Intn(25)
			review.Featured = rating == domain.MaxRating && rng.Intn(3) == 0
			if rng.Intn(4) == 0 {
				review.Replies = append(review.Replies, domain.Reply{
					ID:        uuid.NewString(),
					Author:    domain.Author{Name: "Local Host", Email: "host@example.com"},
					Content:   "Thanks for the detailed write-up, glad you enjoyed it!",
					CreatedAt: createdAt.Add(6 * time.Hour),
				})
			}
		}
		if review.Status == domain.StatusRejected {
			review.ModerationNotes = "off-topic"
		}
		reviews = append(reviews, review)
	}
	return reviews
}

// seedStatus yields roughly 70% approved, 20% pending and 10% rejected.
func seedStatus(rng *rand.Rand) domain.Status {
	switch n := rng.Intn(10); {
	case n < 7:
		return domain.StatusApproved
	case n < 9:
		return domain.StatusPending
	default:
		return domain.StatusRejected
	}
}

func pick(rng *rand.Rand, source []string, count int) []string {
	if count > len(source) {
		count = len(source)
	}
	out := make([]string, 0, count)
	for _, idx := range rng.Perm(len(source))[:count] {
		out = append(out, source[idx])
	}
	return out
}
