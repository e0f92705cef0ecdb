package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/wayfarer-hub/travel-api/internal/review/application"
	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

const uniqueAuthorIndex = "uniq_resource_author"

// ReviewRepository implements application.ReviewRepository using MongoDB.
type ReviewRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewReviewRepository creates a Mongo-backed review repository.
func NewReviewRepository(db *mongo.Database, collectionName string) *ReviewRepository {
	return &ReviewRepository{
		client:     db.Client(),
		collection: db.Collection(collectionName),
	}
}

// EnsureIndexes creates the unique author index and the listing indexes.
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "resourceType", Value: 1},
				{Key: "resourceId", Value: 1},
				{Key: "author.email", Value: 1},
			},
			Options: options.Index().SetName(uniqueAuthorIndex).SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "resourceType", Value: 1},
				{Key: "resourceId", Value: 1},
				{Key: "status", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("resource_status_created"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("status_created"),
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, models)
	return err
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	now := time.Now().UTC()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	if review.UpdatedAt.IsZero() {
		review.UpdatedAt = review.CreatedAt
	}

	id := primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, newReviewDocument(*review, id)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return application.ErrDuplicateReview
		}
		return err
	}
	review.ID = id.Hex()
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, application.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *ReviewRepository) FindByResourceAndEmail(ctx context.Context, key domain.ResourceKey, email string) (*domain.Review, error) {
	return r.findOne(ctx, bson.M{
		"resourceType": string(key.Type),
		"resourceId":   key.ID,
		"author.email": email,
	})
}

func (r *ReviewRepository) FindApproved(ctx context.Context, key domain.ResourceKey, filter application.ReviewFilter, paging application.Paging) ([]domain.Review, error) {
	return r.find(ctx, approvedFilter(key, filter), paging)
}

func (r *ReviewRepository) CountApproved(ctx context.Context, key domain.ResourceKey, filter application.ReviewFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, approvedFilter(key, filter))
}

func (r *ReviewRepository) FindPending(ctx context.Context, paging application.Paging) ([]domain.Review, error) {
	return r.find(ctx, bson.M{"status": string(domain.StatusPending)}, paging)
}

func (r *ReviewRepository) CountPending(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": string(domain.StatusPending)})
}

// ComputeStats groups approved reviews by rating so bucket counts always sum to the total.
func (r *ReviewRepository) ComputeStats(ctx context.Context, key domain.ResourceKey) (domain.Stats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: approvedFilter(key, application.ReviewFilter{})}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$rating",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.Stats{}, err
	}
	defer cursor.Close(ctx)

	histogram := make(map[int]int)
	for cursor.Next(ctx) {
		var bucket struct {
			Rating int `bson:"_id"`
			Count  int `bson:"count"`
		}
		if err := cursor.Decode(&bucket); err != nil {
			return domain.Stats{}, err
		}
		histogram[bucket.Rating] += bucket.Count
	}
	if err := cursor.Err(); err != nil {
		return domain.Stats{}, err
	}
	return domain.StatsFromHistogram(histogram), nil
}

func (r *ReviewRepository) AppendReply(ctx context.Context, id string, reply domain.Reply) (*domain.Review, error) {
	return r.updateByID(ctx, id, bson.M{
		"$push": bson.M{"replies": toReplyDocument(reply)},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *ReviewRepository) IncrementHelpful(ctx context.Context, id string) (int, error) {
	updated, err := r.updateByID(ctx, id, bson.M{
		"$inc": bson.M{"helpfulVotes": 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return updated.HelpfulVotes, nil
}

func (r *ReviewRepository) UpdateModeration(ctx context.Context, id string, update application.ModerationUpdate) (*domain.Review, error) {
	set := bson.M{
		"status":    string(update.Status),
		"updatedAt": time.Now().UTC(),
	}
	if update.Notes != "" {
		set["moderationNotes"] = update.Notes
	}
	if update.Featured != nil {
		set["featured"] = *update.Featured
	}
	return r.updateByID(ctx, id, bson.M{"$set": set})
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return application.ErrNotFound
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *ReviewRepository) findOne(ctx context.Context, filter bson.M) (*domain.Review, error) {
	var doc ReviewDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrNotFound
		}
		return nil, err
	}
	review := mapReviewDocument(doc)
	return &review, nil
}

func (r *ReviewRepository) find(ctx context.Context, filter bson.M, paging application.Paging) ([]domain.Review, error) {
	direction := -1
	if paging.SortOrder == application.SortAsc {
		direction = 1
	}
	findOpts := options.Find().SetSort(bson.D{
		{Key: application.NormalizeSortField(paging.SortBy), Value: direction},
		{Key: "_id", Value: direction},
	})
	if paging.Limit > 0 {
		findOpts.SetLimit(int64(paging.Limit))
		if skip := paging.Skip(); skip > 0 {
			findOpts.SetSkip(int64(skip))
		}
	}

	cursor, err := r.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := make([]domain.Review, 0)
	for cursor.Next(ctx) {
		var doc ReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		reviews = append(reviews, mapReviewDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepository) updateByID(ctx context.Context, id string, update bson.M) (*domain.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, application.ErrNotFound
	}

	var doc ReviewDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrNotFound
		}
		return nil, err
	}
	review := mapReviewDocument(doc)
	return &review, nil
}

func approvedFilter(key domain.ResourceKey, filter application.ReviewFilter) bson.M {
	query := bson.M{
		"resourceType": string(key.Type),
		"resourceId":   key.ID,
		"status":       string(domain.StatusApproved),
	}
	rating := bson.M{}
	if filter.MinRating != nil {
		rating["$gte"] = *filter.MinRating
	}
	if filter.MaxRating != nil {
		rating["$lte"] = *filter.MaxRating
	}
	if len(rating) > 0 {
		query["rating"] = rating
	}
	if filter.TravelType != "" {
		query["travelType"] = filter.TravelType
	}
	if filter.Verified != nil {
		query["verified"] = *filter.Verified
	}
	return query
}

