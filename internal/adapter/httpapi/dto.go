package httpapi

import (
	"time"

	"github.com/debeshghorui/Roomsy/internal/domain"
)

type geoPointDTO struct {
	Longitude float64 `json:"lon"`
	Latitude  float64 `json:"lat"`
}

type imageDTO struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type listingDTO struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Location    string       `json:"location"`
	Country     string       `json:"country"`
	Geometry    *geoPointDTO `json:"geometry,omitempty"`
	Image       imageDTO     `json:"image"`
	OwnerID     string       `json:"owner_id"`
	ReviewIDs   []string     `json:"review_ids"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type reviewDTO struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	Rating    int32     `json:"rating"`
	Comment   string    `json:"comment"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type userDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type listingDetailDTO struct {
	Listing listingDTO  `json:"listing"`
	Owner   *userDTO    `json:"owner,omitempty"`
	Reviews []reviewDTO `json:"reviews"`
}

func toListingDTO(l *domain.Listing) listingDTO {
	dto := listingDTO{
		ID:          l.ID.Hex(),
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Location:    l.Location,
		Country:     l.Country,
		Image:       imageDTO{Filename: l.Image.Filename, URL: l.Image.URL},
		OwnerID:     l.OwnerID.Hex(),
		ReviewIDs:   make([]string, 0, len(l.ReviewIDs)),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if l.Geometry != nil {
		dto.Geometry = &geoPointDTO{Longitude: l.Geometry.Longitude, Latitude: l.Geometry.Latitude}
	}
	for _, id := range l.ReviewIDs {
		dto.ReviewIDs = append(dto.ReviewIDs, id.Hex())
	}
	return dto
}

func toReviewDTO(r *domain.Review) reviewDTO {
	return reviewDTO{
		ID:        r.ID.Hex(),
		ListingID: r.ListingID.Hex(),
		Rating:    r.Rating,
		Comment:   r.Comment,
		AuthorID:  r.AuthorID.Hex(),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{ID: u.ID.Hex(), Username: u.Username, Email: u.Email}
}

func toListingDetailDTO(d *domain.ListingDetail) listingDetailDTO {
	dto := listingDetailDTO{
		Listing: toListingDTO(d.Listing),
		Reviews: make([]reviewDTO, 0, len(d.Reviews)),
	}
	if d.Owner != nil {
		owner := toUserDTO(d.Owner)
		dto.Owner = &owner
	}
	for _, review := range d.Reviews {
		dto.Reviews = append(dto.Reviews, toReviewDTO(review))
	}
	return dto
}
