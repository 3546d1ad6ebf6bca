package domain

import "context"

type HotelRepository interface {
	// Write path; assigns h.ID.
	CreateHotel(ctx context.Context, h *Hotel) error

	// Read paths, always scoped to the owner.
	ListHotelsByOwner(ctx context.Context, owner UserID) ([]Hotel, error)
	GetHotelByOwner(ctx context.Context, owner UserID, id string) (Hotel, error)
}

// ImageUploader stores a data URI with the media host and returns its durable URL.
type ImageUploader interface {
	Upload(ctx context.Context, dataURI string) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
