package domain

import "strconv"

// MinRating and MaxRating bound the integer star rating.
const (
	MinRating = 1
	MaxRating = 5
)

// Stats summarises the approved reviews of a resource.
type Stats struct {
	TotalReviews  int            `json:"totalReviews"`
	AverageRating float64        `json:"averageRating"`
	RatingCounts  map[string]int `json:"ratingCounts"`
}

// EmptyStats returns the zero shape with every rating bucket present.
func EmptyStats() Stats {
	counts := make(map[string]int, MaxRating)
	for rating := MinRating; rating <= MaxRating; rating++ {
		counts[strconv.Itoa(rating)] = 0
	}
	return Stats{RatingCounts: counts}
}

// StatsFromHistogram derives totals and the mean from per-rating counts.
// Ratings outside [MinRating, MaxRating] are ignored.
func StatsFromHistogram(histogram map[int]int) Stats {
	stats := EmptyStats()
	sum := 0
	for rating, count := range histogram {
		if rating < MinRating || rating > MaxRating || count <= 0 {
			continue
		}
		stats.RatingCounts[strconv.Itoa(rating)] = count
		stats.TotalReviews += count
		sum += rating * count
	}
	if stats.TotalReviews > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalReviews)
	}
	return stats
}
