package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"hotel_booking/internal/domain"
)

// jsonList marshals a string slice; nil becomes "[]" so the JSON column is never NULL.
func jsonList(xs []string) (string, error) {
	if xs == nil {
		xs = []string{}
	}
	b, err := json.Marshal(xs)
	return string(b), err
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	fac, err := jsonList(h.Facilities)
	if err != nil {
		return fmt.Errorf("marshal facilities: %w", err)
	}
	imgs, err := jsonList(h.ImageURLs)
	if err != nil {
		return fmt.Errorf("marshal image urls: %w", err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx, insertHotelSQL,
		id,
		string(h.UserID),
		h.Name,
		h.City,
		h.Country,
		h.Description,
		h.Type,
		h.AdultCount,
		h.ChildCount,
		fac,
		h.PricePerNight,
		h.StarRating,
		imgs,
		h.LastUpdated.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert hotel: %w", err)
	}
	h.ID = id
	return nil
}

func (r *Repo) ListHotelsByOwner(ctx context.Context, owner domain.UserID) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsByOwnerSQL, string(owner))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetHotelByOwner(ctx context.Context, owner domain.UserID, id string) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelByOwnerSQL, id, string(owner)))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHotel(s scanner) (domain.Hotel, error) {
	var h domain.Hotel
	var owner string
	var facJSON, imgJSON []byte
	if err := s.Scan(
		&h.ID,
		&owner,
		&h.Name,
		&h.City,
		&h.Country,
		&h.Description,
		&h.Type,
		&h.AdultCount,
		&h.ChildCount,
		&facJSON,
		&h.PricePerNight,
		&h.StarRating,
		&imgJSON,
		&h.LastUpdated,
	); err != nil {
		return domain.Hotel{}, err
	}
	h.UserID = domain.UserID(owner)
	if err := json.Unmarshal(facJSON, &h.Facilities); err != nil {
		return domain.Hotel{}, fmt.Errorf("decode facilities of %s: %w", h.ID, err)
	}
	if err := json.Unmarshal(imgJSON, &h.ImageURLs); err != nil {
		return domain.Hotel{}, fmt.Errorf("decode image urls of %s: %w", h.ID, err)
	}
	h.LastUpdated = h.LastUpdated.UTC()
	return h, nil
}
