package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu      sync.Mutex
	created []domain.Hotel
	list    []domain.Hotel
	one     domain.Hotel
	err     error
	reads   int
	// afterList runs once the listing has been read, before it is returned
	afterList func()
}

func (f *fakeRepo) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	h.ID = "h-1"
	f.created = append(f.created, *h)
	return nil
}

func (f *fakeRepo) ListHotelsByOwner(ctx context.Context, owner domain.UserID) ([]domain.Hotel, error) {
	f.reads++
	list, err := f.list, f.err
	if f.afterList != nil {
		f.afterList()
	}
	return list, err
}

func (f *fakeRepo) GetHotelByOwner(ctx context.Context, owner domain.UserID, id string) (domain.Hotel, error) {
	f.reads++
	if f.one.ID != id || f.one.UserID != owner {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return f.one, nil
}

// fakeUploader returns "url-<n>" where n is the position of the data URI in
// the expected order, and can delay or fail chosen calls.
type fakeUploader struct {
	calls   atomic.Int32
	order   map[string]int
	delay   func(idx int) time.Duration
	failIdx int
	seenCtx []context.Context
	mu      sync.Mutex
}

func (u *fakeUploader) Upload(ctx context.Context, dataURI string) (string, error) {
	u.calls.Add(1)
	idx := u.order[dataURI]
	u.mu.Lock()
	u.seenCtx = append(u.seenCtx, ctx)
	u.mu.Unlock()
	if u.delay != nil {
		select {
		case <-time.After(u.delay(idx)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if u.failIdx == idx {
		return "", errors.New("media host down")
	}
	return "url-" + string(rune('0'+idx)), nil
}

func newUploader(order map[string]int) *fakeUploader {
	return &fakeUploader{order: order, failIdx: -1}
}

// fakeCache stores JSON so Get behaves like the real cache.
type fakeCache struct {
	store map[string][]byte
	sets  []string
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.sets = append(c.sets, key)
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

// ---- helpers ----

func validValues() url.Values {
	return url.Values{
		"name":          {"Test Hotel"},
		"city":          {"Test City"},
		"country":       {"Test Country"},
		"description":   {"This is a description for the Test Hotel"},
		"type":          {"Budget"},
		"pricePerNight": {"100"},
		"starRating":    {"3"},
		"adultCount":    {"2"},
		"childCount":    {"4"},
		"facilities[0]": {"Free Wifi"},
		"facilities[1]": {"Parking"},
	}
}

func images(n int) ([]domain.Image, map[string]int) {
	imgs := make([]domain.Image, n)
	order := make(map[string]int, n)
	for i := range imgs {
		imgs[i] = domain.Image{Filename: "img.png", MIMEType: "image/png", Data: []byte{byte(i), 0x89, 'P', 'N', 'G'}}
		order[app.DataURI(imgs[i])] = i
	}
	return imgs, order
}
