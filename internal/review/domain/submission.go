package domain

import (
	"errors"
	"strings"
	"time"
)

// MaxReviewImages caps the number of images attached to one review.
const MaxReviewImages = 10

// AuthorInput carries the reviewer identity supplied by the client.
type AuthorInput struct {
	Name   string `json:"name" validate:"required,min=2,max=100"`
	Email  string `json:"email" validate:"required,email,max=254"`
	Avatar string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// ImageInput is an image reference supplied with a submission.
type ImageInput struct {
	URL     string `json:"url" validate:"required,url"`
	Caption string `json:"caption,omitempty" validate:"max=200"`
}

// Submission is the public input for a new review. Optional fields default to
// their zero value: Pros/Cons/Images to empty lists, TravelDate/TravelType unset.
// Any status a client tries to set is not part of the input and never persisted.
type Submission struct {
	ResourceType   string       `json:"resourceType" validate:"required,oneof=destination guide blog"`
	ResourceID     string       `json:"resourceId" validate:"required,max=200"`
	Author         AuthorInput  `json:"author"`
	Rating         int          `json:"rating" validate:"min=1,max=5"`
	Title          string       `json:"title" validate:"required,min=5,max=200"`
	Content        string       `json:"content" validate:"required,min=10,max=2000"`
	Pros           []string     `json:"pros" validate:"dive,max=200"`
	Cons           []string     `json:"cons" validate:"dive,max=200"`
	TravelDate     string       `json:"travelDate" validate:"omitempty,travel_date"`
	TravelType     string       `json:"travelType" validate:"omitempty,oneof=solo couple family friends business"`
	WouldRecommend *bool        `json:"wouldRecommend" validate:"required"`
	Images         []ImageInput `json:"images" validate:"max=10,dive"`
}

var errTravelDateFormat = errors.New("travel date must be YYYY-MM-DD or RFC 3339")

// ParseTravelDate accepts a calendar date or a full RFC 3339 timestamp.
func ParseTravelDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errTravelDateFormat
}

// Normalize trims free text and lowercases the author email in place.
func (s *Submission) Normalize() {
	s.ResourceType = strings.TrimSpace(s.ResourceType)
	s.ResourceID = strings.TrimSpace(s.ResourceID)
	s.Author.Name = strings.TrimSpace(s.Author.Name)
	s.Author.Email = NormalizeEmail(s.Author.Email)
	s.Author.Avatar = strings.TrimSpace(s.Author.Avatar)
	s.Title = strings.TrimSpace(s.Title)
	s.Content = strings.TrimSpace(s.Content)
	s.Pros = compactStrings(s.Pros)
	s.Cons = compactStrings(s.Cons)
	s.TravelDate = strings.TrimSpace(s.TravelDate)
	s.TravelType = strings.TrimSpace(s.TravelType)
	for i := range s.Images {
		s.Images[i].URL = strings.TrimSpace(s.Images[i].URL)
		s.Images[i].Caption = strings.TrimSpace(s.Images[i].Caption)
	}
}

// NewReview builds a pending review from a normalized, validated submission.
func NewReview(s Submission, now time.Time) Review {
	review := Review{
		ResourceType: ResourceType(s.ResourceType),
		ResourceID:   s.ResourceID,
		Author: Author{
			Name:   s.Author.Name,
			Email:  s.Author.Email,
			Avatar: s.Author.Avatar,
		},
		Rating:     s.Rating,
		Title:      s.Title,
		Content:    s.Content,
		Pros:       append([]string{}, s.Pros...),
		Cons:       append([]string{}, s.Cons...),
		TravelType: TravelType(s.TravelType),
		Replies:    []Reply{},
		Images:     make([]Image, 0, len(s.Images)),
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if s.WouldRecommend != nil {
		review.WouldRecommend = *s.WouldRecommend
	}
	if s.TravelDate != "" {
		if t, err := ParseTravelDate(s.TravelDate); err == nil {
			review.TravelDate = &t
		}
	}
	for _, img := range s.Images {
		review.Images = append(review.Images, Image{URL: img.URL, Caption: img.Caption})
	}
	return review
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func compactStrings(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		result = append(result, v)
	}
	return result
}
