package domain

import "context"

// Geocoder resolves a free-text location to coordinates. An empty result
// slice is a valid, non-error response meaning the location is unknown.
type Geocoder interface {
	Forward(ctx context.Context, query string) ([]GeoPoint, error)
}

// MediaStorage stores an uploaded file and returns a stable reference.
type MediaStorage interface {
	Store(ctx context.Context, filename string, data []byte) (ImageRef, error)
}

// UploadedFile is an image file received at the request boundary.
type UploadedFile struct {
	Filename string
	Data     []byte
}
