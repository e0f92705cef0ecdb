package public

import (
	"time"

	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

// authorResponse omits the email address.
type authorResponse struct {
	Name   string `json:"name"`
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

type reviewResponse struct {
	ID             string          `json:"id"`
	ResourceType   string          `json:"resourceType"`
	ResourceID     string          `json:"resourceId"`
	Author         authorResponse  `json:"author"`
	Rating         int             `json:"rating"`
	Title          string          `json:"title"`
	Content        string          `json:"content"`
	Pros           []string        `json:"pros"`
	Cons           []string        `json:"cons"`
	TravelDate     *time.Time      `json:"travelDate,omitempty"`
	TravelType     string          `json:"travelType,omitempty"`
	WouldRecommend bool            `json:"wouldRecommend"`
	HelpfulVotes   int             `json:"helpfulVotes"`
	Replies        []replyResponse `json:"replies"`
	Images         []imageResponse `json:"images"`
	Verified       bool            `json:"verified"`
	Featured       bool            `json:"featured"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type replyAuthorRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

type createReplyRequest struct {
	Author  replyAuthorRequest `json:"author"`
	Content string             `json:"content"`
}

type createReviewResponse struct {
	ID string `json:"id"`
}

type helpfulResponse struct {
	HelpfulVotes int `json:"helpfulVotes"`
}

func toReplyResponse(r domain.Reply) replyResponse {
	return replyResponse{
		ID:        r.ID,
		Author:    authorResponse{Name: r.Author.Name, Avatar: r.Author.Avatar},
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}

func toReviewResponse(r domain.Review) reviewResponse {
	resp := reviewResponse{
		ID:             r.ID,
		ResourceType:   string(r.ResourceType),
		ResourceID:     r.ResourceID,
		Author:         authorResponse{Name: r.Author.Name, Avatar: r.Author.Avatar},
		Rating:         r.Rating,
		Title:          r.Title,
		Content:        r.Content,
		Pros:           append([]string{}, r.Pros...),
		Cons:           append([]string{}, r.Cons...),
		TravelDate:     r.TravelDate,
		TravelType:     string(r.TravelType),
		WouldRecommend: r.WouldRecommend,
		HelpfulVotes:   r.HelpfulVotes,
		Replies:        make([]replyResponse, 0, len(r.Replies)),
		Images:         make([]imageResponse, 0, len(r.Images)),
		Verified:       r.Verified,
		Featured:       r.Featured,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	for _, reply := range r.Replies {
		resp.Replies = append(resp.Replies, toReplyResponse(reply))
	}
	for _, img := range r.Images {
		resp.Images = append(resp.Images, imageResponse{URL: img.URL, Caption: img.Caption})
	}
	return resp
}

func toReviewResponses(reviews []domain.Review) []reviewResponse {
	items := make([]reviewResponse, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, toReviewResponse(r))
	}
	return items
}
