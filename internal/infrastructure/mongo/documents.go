package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

// AuthorDocument is the embedded author of a review or reply.
type AuthorDocument struct {
	Name   string `bson:"name"`
	Email  string `bson:"email"`
	Avatar string `bson:"avatar,omitempty"`
}

// ReplyDocument is stored inside the replies array.
type ReplyDocument struct {
	ID        string         `bson:"id"`
	Author    AuthorDocument `bson:"author"`
	Content   string         `bson:"content"`
	CreatedAt time.Time      `bson:"createdAt"`
}

type ImageDocument struct {
	URL     string `bson:"url"`
	Caption string `bson:"caption,omitempty"`
}

// ReviewDocument is the MongoDB schema for a review.
type ReviewDocument struct {
	ID              primitive.ObjectID `bson:"_id"`
	ResourceType    string             `bson:"resourceType"`
	ResourceID      string             `bson:"resourceId"`
	Author          AuthorDocument     `bson:"author"`
	Rating          int                `bson:"rating"`
	Title           string             `bson:"title"`
	Content         string             `bson:"content"`
	Pros            []string           `bson:"pros"`
	Cons            []string           `bson:"cons"`
	TravelDate      *time.Time         `bson:"travelDate,omitempty"`
	TravelType      string             `bson:"travelType,omitempty"`
	WouldRecommend  bool               `bson:"wouldRecommend"`
	HelpfulVotes    int                `bson:"helpfulVotes"`
	Replies         []ReplyDocument    `bson:"replies"`
	Images          []ImageDocument    `bson:"images"`
	Verified        bool               `bson:"verified"`
	Featured        bool               `bson:"featured"`
	Status          string             `bson:"status"`
	ModerationNotes string             `bson:"moderationNotes,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

func newReviewDocument(r domain.Review, id primitive.ObjectID) ReviewDocument {
	doc := ReviewDocument{
		ID:              id,
		ResourceType:    string(r.ResourceType),
		ResourceID:      r.ResourceID,
		Author:          toAuthorDocument(r.Author),
		Rating:          r.Rating,
		Title:           r.Title,
		Content:         r.Content,
		Pros:            append([]string{}, r.Pros...),
		Cons:            append([]string{}, r.Cons...),
		TravelDate:      r.TravelDate,
		TravelType:      string(r.TravelType),
		WouldRecommend:  r.WouldRecommend,
		HelpfulVotes:    r.HelpfulVotes,
		Replies:         make([]ReplyDocument, 0, len(r.Replies)),
		Images:          make([]ImageDocument, 0, len(r.Images)),
		Verified:        r.Verified,
		Featured:        r.Featured,
		Status:          string(r.Status),
		ModerationNotes: r.ModerationNotes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	for _, reply := range r.Replies {
		doc.Replies = append(doc.Replies, toReplyDocument(reply))
	}
	for _, img := range r.Images {
		doc.Images = append(doc.Images, ImageDocument{URL: img.URL, Caption: img.Caption})
	}
	return doc
}

func toAuthorDocument(a domain.Author) AuthorDocument {
	return AuthorDocument{Name: a.Name, Email: a.Email, Avatar: a.Avatar}
}

func toReplyDocument(r domain.Reply) ReplyDocument {
	return ReplyDocument{
		ID:        r.ID,
		Author:    toAuthorDocument(r.Author),
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}

func mapReviewDocument(doc ReviewDocument) domain.Review {
	review := domain.Review{
		ID:              doc.ID.Hex(),
		ResourceType:    domain.ResourceType(doc.ResourceType),
		ResourceID:      doc.ResourceID,
		Author:          domain.Author(doc.Author),
		Rating:          doc.Rating,
		Title:           doc.Title,
		Content:         doc.Content,
		Pros:            append([]string{}, doc.Pros...),
		Cons:            append([]string{}, doc.Cons...),
		TravelDate:      doc.TravelDate,
		TravelType:      domain.TravelType(doc.TravelType),
		WouldRecommend:  doc.WouldRecommend,
		HelpfulVotes:    doc.HelpfulVotes,
		Replies:         make([]domain.Reply, 0, len(doc.Replies)),
		Images:          make([]domain.Image, 0, len(doc.Images)),
		Verified:        doc.Verified,
		Featured:        doc.Featured,
		Status:          domain.Status(doc.Status),
		ModerationNotes: doc.ModerationNotes,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
	for _, reply := range doc.Replies {
		review.Replies = append(review.Replies, domain.Reply{
			ID:        reply.ID,
			Author:    domain.Author(reply.Author),
			Content:   reply.Content,
			CreatedAt: reply.CreatedAt,
		})
	}
	for _, img := range doc.Images {
		review.Images = append(review.Images, domain.Image{URL: img.URL, Caption: img.Caption})
	}
	return review
}
