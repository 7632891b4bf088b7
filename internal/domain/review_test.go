package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewReview(t *testing.T) {
	listingID := primitive.NewObjectID()
	authorID := primitive.NewObjectID()

	t.Run("Valid", func(t *testing.T) {
		review, err := NewReview(listingID, authorID, 4, "  Great stay  ")

		require.NoError(t, err)
		assert.Equal(t, "Great stay", review.Comment)
		assert.Equal(t, int32(4), review.Rating)
		assert.Equal(t, listingID, review.ListingID)
		assert.Equal(t, authorID, review.AuthorID)
		assert.False(t, review.ID.IsZero())
	})

	t.Run("MissingAuthor", func(t *testing.T) {
		_, err := NewReview(listingID, primitive.NilObjectID, 4, "Great stay")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestValidateRating(t *testing.T) {
	for rating := int32(MinRating); rating <= MaxRating; rating++ {
		assert.NoError(t, ValidateRating(rating), "rating %d", rating)
	}
	assert.ErrorIs(t, ValidateRating(0), ErrInvalidInput)
	assert.ErrorIs(t, ValidateRating(6), ErrInvalidInput)
	assert.ErrorIs(t, ValidateRating(-3), ErrInvalidInput)
}

func TestValidateComment(t *testing.T) {
	assert.ErrorIs(t, ValidateComment(""), ErrInvalidInput)
	assert.ErrorIs(t, ValidateComment(strings.Repeat("a", MaxCommentLength+1)), ErrInvalidInput)
	assert.NoError(t, ValidateComment(strings.Repeat("a", MaxCommentLength)))
	assert.NoError(t, ValidateComment("Fine."))

	// Limits count characters, not bytes.
	assert.NoError(t, ValidateComment(strings.Repeat("å", MaxCommentLength)))
	assert.ErrorIs(t, ValidateComment(strings.Repeat("å", MaxCommentLength+1)), ErrInvalidInput)
}
