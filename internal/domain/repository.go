package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListingRepository persists listings. Implementations map
// mongo.ErrNoDocuments style misses to ErrNotFound.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Listing, error)
	FindAll(ctx context.Context) ([]*Listing, error)
	// Update applies only the non-nil fields of upd.
	Update(ctx context.Context, id primitive.ObjectID, upd ListingUpdate) (*Listing, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AddReviewID links a review into the listing's review set ($addToSet).
	AddReviewID(ctx context.Context, listingID, reviewID primitive.ObjectID) error
	// RemoveReviewID unlinks a review from the listing's review set ($pull).
	RemoveReviewID(ctx context.Context, listingID, reviewID primitive.ObjectID) error
}

// ReviewRepository persists reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Review, error)
	// FindByIDs returns the reviews whose ids are in the given set,
	// newest first by creation time.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Review, error)
	Update(ctx context.Context, id primitive.ObjectID, upd ReviewUpdate) (*Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteByListingID removes every review belonging to the listing.
	// Used by the cascade: children are deleted before the parent listing.
	DeleteByListingID(ctx context.Context, listingID primitive.ObjectID) (int64, error)
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// Update applies only the non-nil fields of upd. Uniqueness
	// violations surface as ErrDuplicateEmail / ErrDuplicateUsername.
	Update(ctx context.Context, id primitive.ObjectID, upd UserUpdate) (*User, error)
}
