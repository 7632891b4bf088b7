package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/debeshghorui/Roomsy/internal/domain"
	"github.com/debeshghorui/Roomsy/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CreateListingInput holds the fields for creating a listing.
type CreateListingInput struct {
	Title       string
	Description string
	Location    string
	Country     string
	Price       float64
}

// UpdateListingInput is a partial update; nil fields are left untouched.
type UpdateListingInput struct {
	Title       *string
	Description *string
	Location    *string
	Country     *string
	Price       *float64
}

// ListingUsecase orchestrates listing creation, update and deletion,
// including geocoding, image assignment and the review cascade.
type ListingUsecase struct {
	listings   domain.ListingRepository
	reviews    domain.ReviewRepository
	users      domain.UserRepository
	geocoder   domain.Geocoder
	media      domain.MediaStorage
	authorizer *Authorizer
	cache      ListingCache
	events     EventPublisher
	mailer     Mailer
	logger     *logger.Logger
}

func NewListingUsecase(
	listings domain.ListingRepository,
	reviews domain.ReviewRepository,
	users domain.UserRepository,
	geocoder domain.Geocoder,
	media domain.MediaStorage,
	authorizer *Authorizer,
	cache ListingCache,
	events EventPublisher,
	mailer Mailer,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		listings:   listings,
		reviews:    reviews,
		users:      users,
		geocoder:   geocoder,
		media:      media,
		authorizer: authorizer,
		cache:      cache,
		events:     events,
		mailer:     mailer,
		logger:     log.Named("ListingUsecase"),
	}
}

// Create validates the input, geocodes the location, stores the uploaded
// image (or applies the placeholder) and persists the new listing owned by
// the principal. If geocoding yields no match the listing is not created.
func (uc *ListingUsecase) Create(ctx context.Context, principal *domain.Principal, input CreateListingInput, upload *domain.UploadedFile) (*domain.Listing, error) {
	if err := uc.authorizer.RequirePrincipal(principal); err != nil {
		return nil, err
	}

	uc.logger.Info("Creating listing",
		zap.String("owner", principal.UserID.Hex()),
		zap.String("title", input.Title))

	listing, err := domain.NewListing(principal.UserID, input.Title, input.Description, input.Location, input.Country, input.Price)
	if err != nil {
		return nil, err
	}

	point, err := uc.resolveLocation(ctx, listing.Location)
	if err != nil {
		return nil, err
	}
	listing.Geometry = point

	if upload != nil {
		image, err := uc.media.Store(ctx, upload.Filename, upload.Data)
		if err != nil {
			uc.logger.Error("Media store failed during listing creation", zap.Error(err))
			return nil, fmt.Errorf("%w: media store: %v", domain.ErrUpstream, err)
		}
		listing.Image = image
	}

	if err := uc.listings.Create(ctx, listing); err != nil {
		uc.logger.Error("Failed to persist listing", zap.Error(err))
		return nil, err
	}

	uc.publish(ctx, "listing.created", map[string]interface{}{
		"listing_id": listing.ID.Hex(),
		"owner_id":   listing.OwnerID.Hex(),
		"title":      listing.Title,
		"price":      listing.Price,
		"created_at": listing.CreatedAt.Format(time.RFC3339Nano),
	})
	uc.notifyOwner(ctx, listing)

	uc.logger.Info("Listing created", zap.String("listing_id", listing.ID.Hex()))
	return listing, nil
}

// Update applies a partial update to the principal's own listing. The
// location is re-geocoded only when a new, different location is supplied.
// A present upload replaces the image reference entirely; an absent upload
// leaves the image unchanged.
func (uc *ListingUsecase) Update(ctx context.Context, principal *domain.Principal, id string, input UpdateListingInput, upload *domain.UploadedFile) (*domain.Listing, error) {
	listingID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	listing, err := uc.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if err := uc.authorizer.AuthorizeListing(principal, listing); err != nil {
		return nil, err
	}

	upd, err := uc.buildUpdate(ctx, listing, input)
	if err != nil {
		return nil, err
	}

	if upload != nil {
		image, err := uc.media.Store(ctx, upload.Filename, upload.Data)
		if err != nil {
			uc.logger.Error("Media store failed during listing update", zap.Error(err))
			return nil, fmt.Errorf("%w: media store: %v", domain.ErrUpstream, err)
		}
		upd.Image = &image
	}

	updated, err := uc.listings.Update(ctx, listingID, upd)
	if err != nil {
		uc.logger.Error("Failed to update listing", zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}

	uc.invalidate(ctx, id)
	uc.publish(ctx, "listing.updated", map[string]interface{}{
		"listing_id": updated.ID.Hex(),
		"owner_id":   updated.OwnerID.Hex(),
		"updated_at": updated.UpdatedAt.Format(time.RFC3339Nano),
	})

	uc.logger.Info("Listing updated", zap.String("listing_id", id))
	return updated, nil
}

// Delete removes the principal's own listing together with every linked
// review. Reviews are deleted first; if that step fails the listing is left
// intact so no orphaned review can outlive its listing.
func (uc *ListingUsecase) Delete(ctx context.Context, principal *domain.Principal, id string) error {
	listingID, err := parseID(id)
	if err != nil {
		return err
	}

	listing, err := uc.listings.FindByID(ctx, listingID)
	if err != nil {
		return err
	}
	if err := uc.authorizer.AuthorizeListing(principal, listing); err != nil {
		return err
	}

	deleted, err := uc.reviews.DeleteByListingID(ctx, listingID)
	if err != nil {
		uc.logger.Error("Cascade review deletion failed, listing left intact",
			zap.String("listing_id", id), zap.Error(err))
		return err
	}

	if err := uc.listings.Delete(ctx, listingID); err != nil {
		return err
	}

	uc.invalidate(ctx, id)
	uc.publish(ctx, "listing.deleted", map[string]interface{}{
		"listing_id":      id,
		"owner_id":        listing.OwnerID.Hex(),
		"reviews_deleted": deleted,
		"deleted_at":      time.Now().UTC().Format(time.RFC3339Nano),
	})

	uc.logger.Info("Listing deleted",
		zap.String("listing_id", id), zap.Int64("reviews_deleted", deleted))
	return nil
}

// Get fetches a listing with its owner and linked reviews expanded.
// Only reviews present in the listing's review set are returned.
func (uc *ListingUsecase) Get(ctx context.Context, id string) (*domain.ListingDetail, error) {
	listingID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	listing := uc.cachedListing(ctx, id)
	if listing == nil {
		listing, err = uc.listings.FindByID(ctx, listingID)
		if err != nil {
			return nil, err
		}
		if uc.cache != nil {
			if cacheErr := uc.cache.SetListing(ctx, listing); cacheErr != nil {
				uc.logger.Warn("Failed to cache listing", zap.String("listing_id", id), zap.Error(cacheErr))
			}
		}
	}

	reviews, err := uc.reviews.FindByIDs(ctx, listing.ReviewIDs)
	if err != nil {
		return nil, err
	}

	detail := &domain.ListingDetail{Listing: listing, Reviews: reviews}
	owner, err := uc.users.FindByID(ctx, listing.OwnerID)
	if err != nil {
		uc.logger.Warn("Listing owner could not be resolved",
			zap.String("listing_id", id), zap.Error(err))
	} else {
		detail.Owner = owner
	}
	return detail, nil
}

// List returns all listings as summaries, without relationship expansion.
func (uc *ListingUsecase) List(ctx context.Context) ([]*domain.Listing, error) {
	return uc.listings.FindAll(ctx)
}

func (uc *ListingUsecase) buildUpdate(ctx context.Context, current *domain.Listing, input UpdateListingInput) (domain.ListingUpdate, error) {
	var upd domain.ListingUpdate

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" || utf8.RuneCountInString(title) > domain.MaxTitleLength {
			return upd, domain.NewValidationError("title", "title must be non-empty and at most 100 characters")
		}
		upd.Title = &title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" || utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
			return upd, domain.NewValidationError("description", "description must be non-empty and at most 1000 characters")
		}
		upd.Description = &description
	}
	if input.Country != nil {
		country := strings.TrimSpace(*input.Country)
		if country == "" || utf8.RuneCountInString(country) > domain.MaxCountryLength {
			return upd, domain.NewValidationError("country", "country must be non-empty and at most 100 characters")
		}
		upd.Country = &country
	}
	if input.Price != nil {
		if err := domain.ValidatePrice(*input.Price); err != nil {
			return upd, err
		}
		upd.Price = input.Price
	}
	if input.Location != nil {
		location := strings.TrimSpace(*input.Location)
		if location == "" || utf8.RuneCountInString(location) > domain.MaxLocationLength {
			return upd, domain.NewValidationError("location", "location must be non-empty and at most 100 characters")
		}
		upd.Location = &location
		if location != current.Location {
			point, err := uc.resolveLocation(ctx, location)
			if err != nil {
				return upd, err
			}
			upd.Geometry = point
		}
	}
	return upd, nil
}

func (uc *ListingUsecase) resolveLocation(ctx context.Context, location string) (*domain.GeoPoint, error) {
	points, err := uc.geocoder.Forward(ctx, location)
	if err != nil {
		uc.logger.Error("Geocoding failed", zap.String("location", location), zap.Error(err))
		return nil, fmt.Errorf("%w: geocoding: %v", domain.ErrUpstream, err)
	}
	if len(points) == 0 {
		return nil, domain.NewValidationError("location", "location could not be resolved")
	}
	point := points[0]
	return &point, nil
}

func (uc *ListingUsecase) cachedListing(ctx context.Context, id string) *domain.Listing {
	if uc.cache == nil {
		return nil
	}
	listing, err := uc.cache.GetListing(ctx, id)
	if err != nil {
		uc.logger.Warn("Listing cache lookup failed", zap.String("listing_id", id), zap.Error(err))
		return nil
	}
	return listing
}

func (uc *ListingUsecase) invalidate(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteListing(ctx, id); err != nil {
		uc.logger.Warn("Failed to invalidate listing cache", zap.String("listing_id", id), zap.Error(err))
	}
}

func (uc *ListingUsecase) publish(ctx context.Context, subject string, data map[string]interface{}) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, subject, data); err != nil {
		uc.logger.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

func (uc *ListingUsecase) notifyOwner(ctx context.Context, listing *domain.Listing) {
	if uc.mailer == nil {
		return
	}
	owner, err := uc.users.FindByID(ctx, listing.OwnerID)
	if err != nil {
		uc.logger.Warn("Could not resolve owner for notification email",
			zap.String("listing_id", listing.ID.Hex()), zap.Error(err))
		return
	}
	if err := uc.mailer.SendListingCreatedEmail(owner.Email, listing.Title); err != nil {
		uc.logger.Warn("Failed to send listing created email",
			zap.String("listing_id", listing.ID.Hex()), zap.Error(err))
	}
}

// parseID converts a hex identifier into an ObjectID, distinguishing a
// malformed identifier from a well-formed one that resolves to nothing.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return oid, nil
}
