package main

import (
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"

	"hotel_booking/internal/domain"
)

// manifest is one hotel to seed, stored as <dir>/*.json with image paths
// relative to the manifest file.
type manifest struct {
	Name          string   `json:"name"`
	City          string   `json:"city"`
	Country       string   `json:"country"`
	Description   string   `json:"description"`
	Type          string   `json:"type"`
	AdultCount    int      `json:"adultCount"`
	ChildCount    int      `json:"childCount"`
	Facilities    []string `json:"facilities"`
	PricePerNight float64  `json:"pricePerNight"`
	StarRating    int      `json:"starRating"`
	Images        []string `json:"images"`

	path string
}

func (m manifest) input() domain.HotelInput {
	return domain.HotelInput{
		Name:          m.Name,
		City:          m.City,
		Country:       m.Country,
		Description:   m.Description,
		Type:          m.Type,
		AdultCount:    m.AdultCount,
		ChildCount:    m.ChildCount,
		Facilities:    m.Facilities,
		PricePerNight: m.PricePerNight,
		StarRating:    m.StarRating,
	}
}

func loadManifests(dir string) ([]manifest, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	out := make([]manifest, 0, len(files))
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		var m manifest
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		if len(m.Images) > domain.MaxImages {
			return nil, fmt.Errorf("%s: %w", f, domain.ErrTooManyImages)
		}
		m.path = f
		out = append(out, m)
	}
	return out, nil
}

// images reads the files a manifest points at.
func (m manifest) images() ([]domain.Image, error) {
	base := filepath.Dir(m.path)
	out := make([]domain.Image, 0, len(m.Images))
	for _, rel := range m.Images {
		p := rel
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, rel)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Image{
			Filename: filepath.Base(p),
			MIMEType: mime.TypeByExtension(filepath.Ext(p)),
			Data:     data,
		})
	}
	return out, nil
}
