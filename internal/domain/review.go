package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500
)

// Review belongs to exactly one listing. AuthorID is set at creation.
type Review struct {
	ID        primitive.ObjectID
	ListingID primitive.ObjectID
	Rating    int32
	Comment   string
	AuthorID  primitive.ObjectID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewReview validates rating and comment and builds a Review.
func NewReview(listingID, authorID primitive.ObjectID, rating int32, comment string) (*Review, error) {
	comment = strings.TrimSpace(comment)
	if authorID.IsZero() {
		return nil, NewValidationError("author", "author is required")
	}
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}
	if err := ValidateComment(comment); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Review{
		ID:        primitive.NewObjectID(),
		ListingID: listingID,
		Rating:    rating,
		Comment:   comment,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateRating enforces the 1..5 inclusive scale.
func ValidateRating(rating int32) error {
	if rating < MinRating || rating > MaxRating {
		return NewValidationError("rating", "rating must be between 1 and 5")
	}
	return nil
}

// ValidateComment enforces a non-empty comment of at most 500 characters.
// The limit counts characters, not bytes, so multi-byte text is not
// penalized.
func ValidateComment(comment string) error {
	if comment == "" {
		return NewValidationError("comment", "comment is required")
	}
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return NewValidationError("comment", "comment must be at most 500 characters")
	}
	return nil
}

// ReviewUpdate is a partial update: nil fields are left untouched.
type ReviewUpdate struct {
	Rating  *int32
	Comment *string
}
