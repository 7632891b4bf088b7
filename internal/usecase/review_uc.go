package usecase

import (
	"strings"
	"time"

	"context"

	"github.com/debeshghorui/Roomsy/internal/domain"
	"github.com/debeshghorui/Roomsy/internal/platform/logger"
	"go.uber.org/zap"
)

// ReviewUsecase orchestrates review creation, update and deletion, and
// maintains the listing's review set.
type ReviewUsecase struct {
	reviews    domain.ReviewRepository
	listings   domain.ListingRepository
	authorizer *Authorizer
	cache      ListingCache
	events     EventPublisher
	logger     *logger.Logger
}

func NewReviewUsecase(
	reviews domain.ReviewRepository,
	listings domain.ListingRepository,
	authorizer *Authorizer,
	cache ListingCache,
	events EventPublisher,
	log *logger.Logger,
) *ReviewUsecase {
	return &ReviewUsecase{
		reviews:    reviews,
		listings:   listings,
		authorizer: authorizer,
		cache:      cache,
		events:     events,
		logger:     log.Named("ReviewUsecase"),
	}
}

// Create validates and persists a review authored by the principal, then
// links its id into the listing's review set. The two writes are not atomic
// across a crash; an inserted review stays invisible until linked, which the
// read path guarantees by resolving reviews through the listing's set. The
// cached copy of the listing is dropped once the link lands, so the next
// read sees the grown review set.
func (uc *ReviewUsecase) Create(ctx context.Context, principal *domain.Principal, listingID string, rating int32, comment string) (*domain.Review, error) {
	if err := uc.authorizer.RequirePrincipal(principal); err != nil {
		return nil, err
	}

	lid, err := parseID(listingID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.listings.FindByID(ctx, lid); err != nil {
		return nil, err
	}

	review, err := domain.NewReview(lid, principal.UserID, rating, comment)
	if err != nil {
		return nil, err
	}

	if err := uc.reviews.Create(ctx, review); err != nil {
		uc.logger.Error("Failed to persist review", zap.String("listing_id", listingID), zap.Error(err))
		return nil, err
	}
	if err := uc.listings.AddReviewID(ctx, lid, review.ID); err != nil {
		uc.logger.Error("Failed to link review into listing",
			zap.String("listing_id", listingID), zap.String("review_id", review.ID.Hex()), zap.Error(err))
		return nil, err
	}
	uc.invalidate(ctx, listingID)

	uc.publish(ctx, "review.created", map[string]interface{}{
		"review_id":  review.ID.Hex(),
		"listing_id": listingID,
		"author_id":  review.AuthorID.Hex(),
		"rating":     review.Rating,
		"created_at": review.CreatedAt.Format(time.RFC3339Nano),
	})

	uc.logger.Info("Review created",
		zap.String("review_id", review.ID.Hex()), zap.String("listing_id", listingID))
	return review, nil
}

// Update applies a partial update to the principal's own review.
func (uc *ReviewUsecase) Update(ctx context.Context, principal *domain.Principal, reviewID string, input domain.ReviewUpdate) (*domain.Review, error) {
	rid, err := parseID(reviewID)
	if err != nil {
		return nil, err
	}

	review, err := uc.reviews.FindByID(ctx, rid)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizer.AuthorizeReview(principal, review); err != nil {
		return nil, err
	}

	if input.Rating != nil {
		if err := domain.ValidateRating(*input.Rating); err != nil {
			return nil, err
		}
	}
	if input.Comment != nil {
		comment := strings.TrimSpace(*input.Comment)
		if err := domain.ValidateComment(comment); err != nil {
			return nil, err
		}
		input.Comment = &comment
	}

	updated, err := uc.reviews.Update(ctx, rid, input)
	if err != nil {
		uc.logger.Error("Failed to update review", zap.String("review_id", reviewID), zap.Error(err))
		return nil, err
	}

	uc.publish(ctx, "review.updated", map[string]interface{}{
		"review_id":  reviewID,
		"author_id":  updated.AuthorID.Hex(),
		"updated_at": updated.UpdatedAt.Format(time.RFC3339Nano),
	})

	uc.logger.Info("Review updated", zap.String("review_id", reviewID))
	return updated, nil
}

// Delete removes the principal's own review from a listing. The review id
// is unlinked from the listing's set before the record is deleted, so a
// half-completed operation never leaves the listing pointing at a vanished
// review. The cached listing is dropped as soon as the unlink lands.
func (uc *ReviewUsecase) Delete(ctx context.Context, principal *domain.Principal, listingID, reviewID string) error {
	lid, err := parseID(listingID)
	if err != nil {
		return err
	}
	rid, err := parseID(reviewID)
	if err != nil {
		return err
	}

	if _, err := uc.listings.FindByID(ctx, lid); err != nil {
		return err
	}
	review, err := uc.reviews.FindByID(ctx, rid)
	if err != nil {
		return err
	}
	if err := uc.authorizer.AuthorizeReview(principal, review); err != nil {
		return err
	}

	if err := uc.listings.RemoveReviewID(ctx, lid, rid); err != nil {
		uc.logger.Error("Failed to unlink review from listing",
			zap.String("listing_id", listingID), zap.String("review_id", reviewID), zap.Error(err))
		return err
	}
	uc.invalidate(ctx, listingID)
	if err := uc.reviews.Delete(ctx, rid); err != nil {
		return err
	}

	uc.publish(ctx, "review.deleted", map[string]interface{}{
		"review_id":  reviewID,
		"listing_id": listingID,
		"author_id":  review.AuthorID.Hex(),
		"deleted_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	uc.logger.Info("Review deleted",
		zap.String("review_id", reviewID), zap.String("listing_id", listingID))
	return nil
}

// ListByListing returns the listing's linked reviews, newest first.
func (uc *ReviewUsecase) ListByListing(ctx context.Context, listingID string) ([]*domain.Review, error) {
	lid, err := parseID(listingID)
	if err != nil {
		return nil, err
	}
	listing, err := uc.listings.FindByID(ctx, lid)
	if err != nil {
		return nil, err
	}
	return uc.reviews.FindByIDs(ctx, listing.ReviewIDs)
}

// invalidate drops the cached listing after its review set changed. Review
// updates never call this: only the id set is cached, review bodies are
// always read fresh.
func (uc *ReviewUsecase) invalidate(ctx context.Context, listingID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteListing(ctx, listingID); err != nil {
		uc.logger.Warn("Failed to invalidate listing cache", zap.String("listing_id", listingID), zap.Error(err))
	}
}

func (uc *ReviewUsecase) publish(ctx context.Context, subject string, data map[string]interface{}) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, subject, data); err != nil {
		uc.logger.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
