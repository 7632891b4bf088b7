package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/debeshghorui/Roomsy/internal/domain"
	"github.com/debeshghorui/Roomsy/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const listingCollectionName = "listings"

// ListingRepository implements domain.ListingRepository using MongoDB.
type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewListingRepository creates the repository and ensures its indexes.
func NewListingRepository(db *mongo.Database, log *logger.Logger) (*ListingRepository, error) {
	collection := db.Collection(listingCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn("Failed to create indexes for listings collection (may already exist)", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for listings collection")
	}

	return &ListingRepository{
		collection: collection,
		logger:     log.Named("ListingRepository"),
	}, nil
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	doc := fromDomainListing(listing)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	listing.ID = doc.ID

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert listing", zap.Error(err))
		return fmt.Errorf("%w: db insert failed: %v", domain.ErrRepository, err)
	}
	r.logger.Debug("Listing inserted", zap.String("listing_id", doc.ID.Hex()))
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Listing, error) {
	var doc listingDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to find listing", zap.String("listing_id", id.Hex()), zap.Error(err))
		return nil, fmt.Errorf("%w: db findone failed: %v", domain.ErrRepository, err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) FindAll(ctx context.Context) ([]*domain.Listing, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		r.logger.Error("Failed to list listings", zap.Error(err))
		return nil, fmt.Errorf("%w: db find failed: %v", domain.ErrRepository, err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: db cursor all failed: %v", domain.ErrRepository, err)
	}

	listings := make([]*domain.Listing, len(docs))
	for i, doc := range docs {
		listings[i] = doc.toDomain()
	}
	return listings, nil
}

// Update applies only the non-nil fields of upd via $set and returns the
// post-update listing.
func (r *ListingRepository) Update(ctx context.Context, id primitive.ObjectID, upd domain.ListingUpdate) (*domain.Listing, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.Country != nil {
		set["country"] = *upd.Country
	}
	if upd.Geometry != nil {
		set["geometry"] = geoPointDocument{Longitude: upd.Geometry.Longitude, Latitude: upd.Geometry.Latitude}
	}
	if upd.Image != nil {
		set["image"] = imageDocument{Filename: upd.Image.Filename, URL: upd.Image.URL}
	}

	var doc listingDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to update listing", zap.String("listing_id", id.Hex()), zap.Error(err))
		return nil, fmt.Errorf("%w: db update failed: %v", domain.ErrRepository, err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete listing", zap.String("listing_id", id.Hex()), zap.Error(err))
		return fmt.Errorf("%w: db delete failed: %v", domain.ErrRepository, err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	r.logger.Debug("Listing deleted", zap.String("listing_id", id.Hex()))
	return nil
}

// AddReviewID links a review into the listing's review set. $addToSet keeps
// the write atomic, so concurrent review creations on the same listing both
// land.
func (r *ListingRepository) AddReviewID(ctx context.Context, listingID, reviewID primitive.ObjectID) error {
	result, err := r.collection.UpdateByID(ctx, listingID, bson.M{
		"$addToSet": bson.M{"review_ids": reviewID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		r.logger.Error("Failed to link review into listing",
			zap.String("listing_id", listingID.Hex()), zap.String("review_id", reviewID.Hex()), zap.Error(err))
		return fmt.Errorf("%w: db update failed: %v", domain.ErrRepository, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RemoveReviewID unlinks a review from the listing's review set via $pull.
func (r *ListingRepository) RemoveReviewID(ctx context.Context, listingID, reviewID primitive.ObjectID) error {
	result, err := r.collection.UpdateByID(ctx, listingID, bson.M{
		"$pull": bson.M{"review_ids": reviewID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		r.logger.Error("Failed to unlink review from listing",
			zap.String("listing_id", listingID.Hex()), zap.String("review_id", reviewID.Hex()), zap.Error(err))
		return fmt.Errorf("%w: db update failed: %v", domain.ErrRepository, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
