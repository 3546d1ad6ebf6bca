package app

import (
	"context"
	"fmt"
	"time"

	"hotel_booking/internal/domain"
)

type QueryService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// The owner listing is cached under a generation that every create bumps, so
// a listing read before a create can never be served after it.
const listGenTTL = 7 * 24 * time.Hour

func listGenKey(owner domain.UserID) string { return fmt.Sprintf("myhotels-gen:%s", owner) }

func listKey(owner domain.UserID, gen int64) string {
	return fmt.Sprintf("myhotels:%s:%d", owner, gen)
}

// listGen returns the owner's current listing generation; 0 when unknown.
func listGen(ctx context.Context, c domain.Cache, owner domain.UserID) int64 {
	var gen int64
	if ok, err := c.Get(ctx, listGenKey(owner), &gen); !ok || err != nil {
		return 0
	}
	return gen
}

func hotelKey(owner domain.UserID, id string) string {
	return fmt.Sprintf("hotel:%s:%s", owner, id)
}

// ListMyHotels returns the owner's hotels, newest first.
func (s *QueryService) ListMyHotels(ctx context.Context, owner domain.UserID) ([]domain.Hotel, error) {
	var key string
	var out []domain.Hotel
	if s.cache != nil {
		key = listKey(owner, listGen(ctx, s.cache, owner))
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}

	hs, err := s.repo.ListHotelsByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	// copy so the cached value never shares a backing array with the repo's
	cp := make([]domain.Hotel, len(hs))
	copy(cp, hs)
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	}
	return cp, nil
}

func (s *QueryService) GetMyHotel(ctx context.Context, owner domain.UserID, id string) (domain.Hotel, error) {
	key := hotelKey(owner, id)
	var h domain.Hotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &h); ok {
			return h, nil
		}
	}
	h, err := s.repo.GetHotelByOwner(ctx, owner, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	}
	return h, nil
}
