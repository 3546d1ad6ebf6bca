package main

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_booking/internal/adapters/auth"
	"hotel_booking/internal/adapters/myhotels"
	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("api", cfg.APIBaseURL).
		Str("dir", cfg.SeedDir).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	token := cfg.SeedToken
	if token == "" {
		v, err := auth.NewVerifier(cfg.JWTSecret, time.Hour)
		if err != nil {
			log.Fatal().Err(err).Msg("set SEED_TOKEN or JWT_SECRET_KEY")
		}
		if token, err = v.Issue(domain.UserID(cfg.SeedUserID)); err != nil {
			log.Fatal().Err(err).Msg("failed to issue seed token")
		}
	}

	hotels, err := loadManifests(cfg.SeedDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read manifests")
	}

	client := myhotels.New(cfg.APIBaseURL, token, 2*time.Minute)
	sem := semaphore.NewWeighted(int64(max(cfg.SeedWorkers, 1)))
	var wg sync.WaitGroup
	var failed atomic.Int64

	for _, m := range hotels {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(m manifest) {
			defer wg.Done()
			defer sem.Release(1)

			imgs, err := m.images()
			if err != nil {
				failed.Add(1)
				log.Warn().Str("file", m.path).Err(err).Msg("read images failed")
				return
			}
			h, err := client.CreateHotel(ctx, m.input(), imgs)
			if err != nil {
				failed.Add(1)
				var apiErr *myhotels.APIError
				if errors.As(err, &apiErr) {
					log.Warn().Str("file", m.path).Int("status", apiErr.Status).Err(err).Msg("hotel rejected")
					return
				}
				log.Warn().Str("file", m.path).Err(err).Msg("create failed")
				return
			}
			log.Info().Str("file", m.path).Str("id", h.ID).Int("images", len(h.ImageURLs)).Msg("hotel created")
		}(m)
	}

	wg.Wait()
	if n := failed.Load(); n > 0 {
		log.Fatal().Int64("failed", n).Int("total", len(hotels)).Msg("seeding finished with failures")
	}
	log.Info().Int("total", len(hotels)).Msg("seeding completed")
}
