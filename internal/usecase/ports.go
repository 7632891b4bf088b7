package usecase

import (
	"context"
	"time"

	"github.com/debeshghorui/Roomsy/internal/domain"
)

// ListingCache is a read-through cache for single listings. A (nil, nil)
// return means cache miss.
type ListingCache interface {
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	SetListing(ctx context.Context, listing *domain.Listing) error
	DeleteListing(ctx context.Context, id string) error
}

// EventPublisher emits domain events. Publish failures are non-fatal for
// the emitting operation.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// Mailer sends owner notifications. Send failures are non-fatal.
type Mailer interface {
	SendListingCreatedEmail(toEmail, listingTitle string) error
}

// TokenStore caches issued session tokens per user so that logout can
// invalidate them before their JWT expiry.
type TokenStore interface {
	CacheToken(ctx context.Context, userID, token string, ttl time.Duration) error
	GetToken(ctx context.Context, userID string) (string, error)
	InvalidateToken(ctx context.Context, userID string) error
}
