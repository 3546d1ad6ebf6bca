// internal/adapters/cloudinary/client.go
package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
	"golang.org/x/time/rate"

	"hotel_booking/internal/adapters/observability"
)

const DefaultBaseURL = "https://api.cloudinary.com"

type Config struct {
	BaseURL   string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	RPS       int
	Timeout   time.Duration
}

// Client uploads images through the Cloudinary SDK's signed upload call.
type Client struct {
	up      *uploader.API
	folder  string
	timeout time.Duration
	rl      *rate.Limiter
}

func New(cfg Config) (*Client, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloud name, API key and API secret are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	conf, err := config.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	conf.API.UploadPrefix = strings.TrimRight(cfg.BaseURL, "/")

	c, err := cld.NewFromConfiguration(*conf)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Client{
		up:      &c.Upload,
		folder:  cfg.Folder,
		timeout: cfg.Timeout,
		rl:      rate.NewLimiter(rate.Limit(cfg.RPS), cfg.RPS),
	}, nil
}

var ErrRejected = errors.New("cloudinary: upload failed")

// Upload sends one data URI and returns the hosted URL. Failures are not retried.
func (c *Client) Upload(ctx context.Context, dataURI string) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	res, err := c.up.Upload(ctx, dataURI, uploader.UploadParams{
		Folder:       c.folder,
		ResourceType: "image",
	})
	if err != nil {
		observability.ObserveExternal("cloudinary", "upload", 0, time.Since(start))
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrRejected, err)
	}
	if res.Error.Message != "" {
		observability.ObserveExternal("cloudinary", "upload", http.StatusBadRequest, time.Since(start))
		return "", fmt.Errorf("%w: %s", ErrRejected, res.Error.Message)
	}
	observability.ObserveExternal("cloudinary", "upload", http.StatusOK, time.Since(start))
	if res.URL == "" {
		return "", fmt.Errorf("%w: response has no url", ErrRejected)
	}
	return res.URL, nil
}
