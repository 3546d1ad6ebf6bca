package domain

import (
	"errors"
	"fmt"
	"time"
)

// MaxImages is the most image files a single hotel may carry.
const MaxImages = 6

// MaxImageBytes is the per-file upload ceiling (5 MiB).
const MaxImageBytes = 5 << 20

var (
	ErrNotFound      = errors.New("not found")
	ErrNoOwner       = errors.New("hotel owner is required")
	ErrTooManyImages = fmt.Errorf("a hotel may have at most %d images", MaxImages)
)

// UserID identifies an authenticated caller. It only ever comes from the auth gate.
type UserID string

type Hotel struct {
	ID            string    `json:"_id" bson:"_id,omitempty"`
	UserID        UserID    `json:"userId" bson:"userId"`
	Name          string    `json:"name" bson:"name"`
	City          string    `json:"city" bson:"city"`
	Country       string    `json:"country" bson:"country"`
	Description   string    `json:"description" bson:"description"`
	Type          string    `json:"type" bson:"type"`
	AdultCount    int       `json:"adultCount" bson:"adultCount"`
	ChildCount    int       `json:"childCount" bson:"childCount"`
	Facilities    []string  `json:"facilities" bson:"facilities"`
	PricePerNight float64   `json:"pricePerNight" bson:"pricePerNight"`
	StarRating    int       `json:"starRating" bson:"starRating"`
	ImageURLs     []string  `json:"imageUrls" bson:"imageUrls"`
	LastUpdated   time.Time `json:"lastUpdated" bson:"lastUpdated"`
}

// HotelInput is the client-controlled part of a hotel. Owner, image URLs and
// timestamps are deliberately absent.
type HotelInput struct {
	Name          string
	City          string
	Country       string
	Description   string
	Type          string
	AdultCount    int
	ChildCount    int
	Facilities    []string
	PricePerNight float64
	StarRating    int
}

// NewHotel is the only way a persistable Hotel is built from client input.
func NewHotel(owner UserID, in HotelInput, imageURLs []string, now time.Time) (Hotel, error) {
	if owner == "" {
		return Hotel{}, ErrNoOwner
	}
	if len(imageURLs) > MaxImages {
		return Hotel{}, ErrTooManyImages
	}
	urls := make([]string, len(imageURLs))
	copy(urls, imageURLs)
	facilities := make([]string, len(in.Facilities))
	copy(facilities, in.Facilities)

	return Hotel{
		UserID:        owner,
		Name:          in.Name,
		City:          in.City,
		Country:       in.Country,
		Description:   in.Description,
		Type:          in.Type,
		AdultCount:    in.AdultCount,
		ChildCount:    in.ChildCount,
		Facilities:    facilities,
		PricePerNight: in.PricePerNight,
		StarRating:    in.StarRating,
		ImageURLs:     urls,
		LastUpdated:   now.UTC().Truncate(time.Millisecond),
	}, nil
}

// Image is an uploaded file held in memory until the media host returns a URL.
type Image struct {
	Filename string
	MIMEType string
	Data     []byte
}
