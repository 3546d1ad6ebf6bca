// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

// ImageField is the multipart field carrying hotel images.
const ImageField = "imageFiles"

const (
	// room for one image over the limit so the validator, not the reader, reports it
	maxFormBytes  = (domain.MaxImages+1)*domain.MaxImageBytes + 1<<20
	maxFormMemory = 32 << 20
)

type HotelCreator interface {
	CreateHotel(ctx context.Context, owner domain.UserID, form app.HotelForm) (domain.Hotel, error)
}

type HotelQuerier interface {
	ListMyHotels(ctx context.Context, owner domain.UserID) ([]domain.Hotel, error)
	GetMyHotel(ctx context.Context, owner domain.UserID, id string) (domain.Hotel, error)
}

type Handlers struct {
	Create HotelCreator
	Q      HotelQuerier
	Auth   TokenVerifier
}

type message struct {
	Message string `json:"message"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/api/my-hotels", func(r chi.Router) {
		r.Use(RequireUser(h.Auth))
		r.Post("/", h.createHotel)
		r.Get("/", h.listMyHotels)
		r.Get("/{id}", h.getMyHotel)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, message{Message: msg})
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	l := zerolog.Ctx(r.Context())
	owner, ok := UserFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	form, err := readHotelForm(r)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "Request body is too large")
			return
		}
		l.Debug().Err(err).Msg("unreadable hotel form")
		writeJSON(w, http.StatusBadRequest, app.ValidationErrors{{Field: "form", Message: "Request must be a multipart form"}})
		return
	}

	hotel, err := h.Create.CreateHotel(r.Context(), owner, form)
	var verrs app.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		observability.ObserveCreate("invalid", 0)
		writeJSON(w, http.StatusBadRequest, verrs)
	case errors.Is(err, domain.ErrNoOwner):
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
	case err != nil:
		observability.ObserveCreate("failed", 0)
		l.Error().Err(err).Str("owner", string(owner)).Int("images", len(form.Images)).Msg("Error creating hotel")
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
	default:
		observability.ObserveCreate("created", len(hotel.ImageURLs))
		l.Info().Str("owner", string(owner)).Str("hotel_id", hotel.ID).Int("images", len(hotel.ImageURLs)).Msg("hotel created")
		writeJSON(w, http.StatusCreated, hotel)
	}
}

// readHotelForm parses the multipart body into text values and in-memory
// images. Each image is read up to one byte past the limit so oversize files
// are detected without buffering them whole.
func readHotelForm(r *http.Request) (app.HotelForm, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return app.HotelForm{}, err
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form := app.HotelForm{Values: url.Values(r.MultipartForm.Value)}
	for _, fh := range r.MultipartForm.File[ImageField] {
		f, err := fh.Open()
		if err != nil {
			return app.HotelForm{}, err
		}
		data, err := io.ReadAll(io.LimitReader(f, domain.MaxImageBytes+1))
		_ = f.Close()
		if err != nil {
			return app.HotelForm{}, err
		}
		form.Images = append(form.Images, domain.Image{
			Filename: fh.Filename,
			MIMEType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return form, nil
}

func (h *Handlers) listMyHotels(w http.ResponseWriter, r *http.Request) {
	owner, ok := UserFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	hs, err := h.Q.ListMyHotels(r.Context(), owner)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("owner", string(owner)).Msg("Error fetching hotels")
		writeMessage(w, http.StatusInternalServerError, "Error fetching hotels")
		return
	}
	writeCached(w, r, hs)
}

func (h *Handlers) getMyHotel(w http.ResponseWriter, r *http.Request) {
	owner, ok := UserFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id := chi.URLParam(r, "id")
	hotel, err := h.Q.GetMyHotel(r.Context(), owner, id)
	if errors.Is(err, domain.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Hotel not found")
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("hotel_id", id).Msg("Error fetching hotel")
		writeMessage(w, http.StatusInternalServerError, "Error fetching hotel")
		return
	}
	writeCached(w, r, hotel)
}
