package domain

import "time"

// ResourceType identifies the kind of content a review targets.
type ResourceType string

const (
	ResourceDestination ResourceType = "destination"
	ResourceGuide       ResourceType = "guide"
	ResourceBlog        ResourceType = "blog"
)

// Valid reports whether t is one of the known resource types.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceDestination, ResourceGuide, ResourceBlog:
		return true
	}
	return false
}

// Status controls public visibility of a review.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// TravelType describes who the reviewer travelled with.
type TravelType string

const (
	TravelSolo     TravelType = "solo"
	TravelCouple   TravelType = "couple"
	TravelFamily   TravelType = "family"
	TravelFriends  TravelType = "friends"
	TravelBusiness TravelType = "business"
)

// Author is the embedded identity of a reviewer or replier.
type Author struct {
	Name   string
	Email  string
	Avatar string
}

// Reply is an approved-review follow-up appended by the public.
type Reply struct {
	ID        string
	Author    Author
	Content   string
	CreatedAt time.Time
}

// Image is an attached photo reference.
type Image struct {
	URL     string
	Caption string
}

// ResourceKey addresses the set of reviews for a single resource.
type ResourceKey struct {
	Type ResourceType
	ID   string
}

// Review is a user-submitted review of a destination, guide or blog post.
type Review struct {
	ID              string
	ResourceType    ResourceType
	ResourceID      string
	Author          Author
	Rating          int
	Title           string
	Content         string
	Pros            []string
	Cons            []string
	TravelDate      *time.Time
	TravelType      TravelType
	WouldRecommend  bool
	HelpfulVotes    int
	Replies         []Reply
	Images          []Image
	Verified        bool
	Featured        bool
	Status          Status
	ModerationNotes string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Key returns the resource key the review belongs to.
func (r Review) Key() ResourceKey {
	return ResourceKey{Type: r.ResourceType, ID: r.ResourceID}
}

// IsApproved reports whether the review is publicly visible.
func (r Review) IsApproved() bool {
	return r.Status == StatusApproved
}

// Clone returns a deep copy so callers can mutate slices freely.
func (r Review) Clone() Review {
	out := r
	out.Pros = append([]string(nil), r.Pros...)
	out.Cons = append([]string(nil), r.Cons...)
	out.Replies = append([]Reply(nil), r.Replies...)
	out.Images = append([]Image(nil), r.Images...)
	if r.TravelDate != nil {
		t := *r.TravelDate
		out.TravelDate = &t
	}
	return out
}
