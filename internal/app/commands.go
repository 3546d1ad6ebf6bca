package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_booking/internal/domain"
)

type CreateHotelService struct {
	uploader    domain.ImageUploader
	repo        domain.HotelRepository
	cache       domain.Cache
	uploadLimit int
	now         func() time.Time
}

// NewCreateHotelService wires the create path. uploadLimit caps concurrent
// uploads per request; <= 0 means all images at once.
func NewCreateHotelService(u domain.ImageUploader, r domain.HotelRepository, c domain.Cache, uploadLimit int) *CreateHotelService {
	return &CreateHotelService{uploader: u, repo: r, cache: c, uploadLimit: uploadLimit, now: time.Now}
}

// CreateHotel validates the form, uploads every image, then persists one
// record owned by owner. A ValidationErrors error means nothing was uploaded
// or written. Any other error means nothing was written.
func (s *CreateHotelService) CreateHotel(ctx context.Context, owner domain.UserID, form HotelForm) (domain.Hotel, error) {
	if owner == "" {
		return domain.Hotel{}, domain.ErrNoOwner
	}
	if errs := ValidateHotelForm(form); len(errs) > 0 {
		return domain.Hotel{}, errs
	}

	urls, err := s.uploadImages(ctx, form.Images)
	if err != nil {
		return domain.Hotel{}, err
	}

	h, err := domain.NewHotel(owner, toHotelInput(form.Values), urls, s.now())
	if err != nil {
		return domain.Hotel{}, err
	}
	if err := s.repo.CreateHotel(ctx, &h); err != nil {
		return domain.Hotel{}, fmt.Errorf("persist hotel: %w", err)
	}

	// Owner's listing changed; move readers to a new generation.
	if s.cache != nil {
		gen := s.now().UnixNano()
		if err := s.cache.Set(ctx, listGenKey(owner), gen, int(listGenTTL.Seconds())); err != nil {
			log.Warn().Err(err).Str("owner", string(owner)).Msg("listing cache invalidation failed")
		}
	}
	return h, nil
}

// uploadImages fans out one upload per image and fans in by index. The first
// failure cancels the rest and fails the whole batch.
func (s *CreateHotelService) uploadImages(ctx context.Context, images []domain.Image) ([]string, error) {
	urls := make([]string, len(images))
	if len(images) == 0 {
		return urls, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if s.uploadLimit > 0 {
		g.SetLimit(s.uploadLimit)
	}
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			u, err := s.uploader.Upload(gctx, dataURI(img))
			if err != nil {
				return fmt.Errorf("upload image %d (%s): %w", i, img.Filename, err)
			}
			urls[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
