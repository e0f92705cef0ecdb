package admin

import (
	"time"

	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

type authorResponse struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

type replyResponse struct {
	ID        string         `json:"id"`
	Author    authorResponse `json:"author"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
}

type imageResponse struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// adminReviewResponse is the full document, moderation fields included.
type adminReviewResponse struct {
	ID              string          `json:"id"`
	ResourceType    string          `json:"resourceType"`
	ResourceID      string          `json:"resourceId"`
	Author          authorResponse  `json:"author"`
	Rating          int             `json:"rating"`
	Title           string          `json:"title"`
	Content         string          `json:"content"`
	Pros            []string        `json:"pros"`
	Cons            []string        `json:"cons"`
	TravelDate      *time.Time      `json:"travelDate,omitempty"`
	TravelType      string          `json:"travelType,omitempty"`
	WouldRecommend  bool            `json:"wouldRecommend"`
	HelpfulVotes    int             `json:"helpfulVotes"`
	Replies         []replyResponse `json:"replies"`
	Images          []imageResponse `json:"images"`
	Verified        bool            `json:"verified"`
	Featured        bool            `json:"featured"`
	Status          string          `json:"status"`
	ModerationNotes string          `json:"moderationNotes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type moderateRequest struct {
	Status          string `json:"status"`
	ModerationNotes string `json:"moderationNotes"`
	Featured        *bool  `json:"featured"`
}

type moderateResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Featured bool   `json:"featured"`
}

func toAuthorResponse(a domain.Author) authorResponse {
	return authorResponse{Name: a.Name, Email: a.Email, Avatar: a.Avatar}
}

func adminReviewDomainToResponse(r domain.Review) adminReviewResponse {
	resp := adminReviewResponse{
		ID:              r.ID,
		ResourceType:    string(r.ResourceType),
		ResourceID:      r.ResourceID,
		Author:          toAuthorResponse(r.Author),
		Rating:          r.Rating,
		Title:           r.Title,
		Content:         r.Content,
		Pros:            append([]string{}, r.Pros...),
		Cons:            append([]string{}, r.Cons...),
		TravelDate:      r.TravelDate,
		TravelType:      string(r.TravelType),
		WouldRecommend:  r.WouldRecommend,
		HelpfulVotes:    r.HelpfulVotes,
		Replies:         make([]replyResponse, 0, len(r.Replies)),
		Images:          make([]imageResponse, 0, len(r.Images)),
		Verified:        r.Verified,
		Featured:        r.Featured,
		Status:          string(r.Status),
		ModerationNotes: r.ModerationNotes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	for _, reply := range r.Replies {
		resp.Replies = append(resp.Replies, replyResponse{
			ID:        reply.ID,
			Author:    toAuthorResponse(reply.Author),
			Content:   reply.Content,
			CreatedAt: reply.CreatedAt,
		})
	}
	for _, img := range r.Images {
		resp.Images = append(resp.Images, imageResponse{URL: img.URL, Caption: img.Caption})
	}
	return resp
}
