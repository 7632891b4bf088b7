package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// DefaultImageFilename and DefaultImageURL are applied when a listing
	// is created without an uploaded image.
	DefaultImageFilename = "listing"
	DefaultImageURL      = "https://images.unsplash.com/photo-1625505826533-5c80aca7d157?ixlib=rb-4.0.3&ixid=M3wxMjA3fDB8MHxzZWFyY2h8MTJ8fGdvYXxlbnwwfHwwfHx8MA%3D%3D&auto=format&fit=crop&w=800&q=60"

	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
	MaxLocationLength    = 100
	MaxCountryLength     = 100
)

// GeoPoint is a lon/lat coordinate pair resolved by the geocoder.
type GeoPoint struct {
	Longitude float64
	Latitude  float64
}

// ImageRef is a stable reference to a stored listing image.
type ImageRef struct {
	Filename string
	URL      string
}

// DefaultImage returns the placeholder image reference.
func DefaultImage() ImageRef {
	return ImageRef{Filename: DefaultImageFilename, URL: DefaultImageURL}
}

// Listing is a property listing. OwnerID is set at creation and never
// reassigned. ReviewIDs is the set of linked reviews; a review record that
// exists but is not linked here is invisible to readers.
type Listing struct {
	ID          primitive.ObjectID
	Title       string
	Description string
	Price       float64
	Location    string
	Country     string
	Geometry    *GeoPoint
	Image       ImageRef
	OwnerID     primitive.ObjectID
	ReviewIDs   []primitive.ObjectID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewListing validates the supplied fields and builds a Listing with the
// placeholder image and an empty review set. Geometry and a replacement
// image are attached by the caller after geocoding/upload.
func NewListing(ownerID primitive.ObjectID, title, description, location, country string, price float64) (*Listing, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	location = strings.TrimSpace(location)
	country = strings.TrimSpace(country)

	if ownerID.IsZero() {
		return nil, NewValidationError("owner", "owner is required")
	}
	if err := validateListingField("title", title, MaxTitleLength); err != nil {
		return nil, err
	}
	if err := validateListingField("description", description, MaxDescriptionLength); err != nil {
		return nil, err
	}
	if err := validateListingField("location", location, MaxLocationLength); err != nil {
		return nil, err
	}
	if err := validateListingField("country", country, MaxCountryLength); err != nil {
		return nil, err
	}
	if err := ValidatePrice(price); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Listing{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		Price:       price,
		Location:    location,
		Country:     country,
		Image:       DefaultImage(),
		OwnerID:     ownerID,
		ReviewIDs:   []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ValidatePrice rejects zero and negative prices.
func ValidatePrice(price float64) error {
	if price <= 0 {
		return NewValidationError("price", "price must be a positive number")
	}
	return nil
}

// validateListingField counts characters, not bytes.
func validateListingField(name, value string, max int) error {
	if value == "" {
		return NewValidationError(name, name+" is required")
	}
	if utf8.RuneCountInString(value) > max {
		return NewValidationError(name, name+" is too long")
	}
	return nil
}

// ListingUpdate is a partial update: nil fields are left untouched. A nil
// Image means "no change requested", never "clear the image".
type ListingUpdate struct {
	Title       *string
	Description *string
	Price       *float64
	Location    *string
	Country     *string
	Geometry    *GeoPoint
	Image       *ImageRef
}

// ListingDetail is a listing with its owner and linked reviews expanded.
type ListingDetail struct {
	Listing *Listing
	Owner   *User
	Reviews []*Review
}
