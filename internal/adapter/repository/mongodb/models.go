package mongodb

import (
	"time"

	"github.com/debeshghorui/Roomsy/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document structs keep the bson mapping out of the domain entities; the
// repositories convert at the boundary.

type geoPointDocument struct {
	Longitude float64 `bson:"lon"`
	Latitude  float64 `bson:"lat"`
}

type imageDocument struct {
	Filename string `bson:"filename"`
	URL      string `bson:"url"`
}

type listingDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Title       string               `bson:"title"`
	Description string               `bson:"description"`
	Price       float64              `bson:"price"`
	Location    string               `bson:"location"`
	Country     string               `bson:"country"`
	Geometry    *geoPointDocument    `bson:"geometry,omitempty"`
	Image       imageDocument        `bson:"image"`
	OwnerID     primitive.ObjectID   `bson:"owner_id"`
	ReviewIDs   []primitive.ObjectID `bson:"review_ids"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

type reviewDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ListingID primitive.ObjectID `bson:"listing_id"`
	Rating    int32              `bson:"rating"`
	Comment   string             `bson:"comment"`
	AuthorID  primitive.ObjectID `bson:"author_id"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func fromDomainListing(l *domain.Listing) *listingDocument {
	doc := &listingDocument{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Location:    l.Location,
		Country:     l.Country,
		Image:       imageDocument{Filename: l.Image.Filename, URL: l.Image.URL},
		OwnerID:     l.OwnerID,
		ReviewIDs:   l.ReviewIDs,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if l.Geometry != nil {
		doc.Geometry = &geoPointDocument{Longitude: l.Geometry.Longitude, Latitude: l.Geometry.Latitude}
	}
	if doc.ReviewIDs == nil {
		doc.ReviewIDs = []primitive.ObjectID{}
	}
	return doc
}

func (d *listingDocument) toDomain() *domain.Listing {
	listing := &domain.Listing{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Location:    d.Location,
		Country:     d.Country,
		Image:       domain.ImageRef{Filename: d.Image.Filename, URL: d.Image.URL},
		OwnerID:     d.OwnerID,
		ReviewIDs:   d.ReviewIDs,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Geometry != nil {
		listing.Geometry = &domain.GeoPoint{Longitude: d.Geometry.Longitude, Latitude: d.Geometry.Latitude}
	}
	if listing.ReviewIDs == nil {
		listing.ReviewIDs = []primitive.ObjectID{}
	}
	return listing
}

func fromDomainReview(r *domain.Review) *reviewDocument {
	return &reviewDocument{
		ID:        r.ID,
		ListingID: r.ListingID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		AuthorID:  r.AuthorID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (d *reviewDocument) toDomain() *domain.Review {
	return &domain.Review{
		ID:        d.ID,
		ListingID: d.ListingID,
		Rating:    d.Rating,
		Comment:   d.Comment,
		AuthorID:  d.AuthorID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func fromDomainUser(u *domain.User) *userDocument {
	return &userDocument{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
