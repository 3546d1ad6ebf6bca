// internal/adapters/myhotels/client.go
package myhotels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

// Client drives the my-hotels API the same way the web form does.
type Client struct {
	base  string
	token string
	hc    *http.Client
}

func New(base, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		base:  strings.TrimRight(base, "/") + "/api/my-hotels",
		token: token,
		hc:    &http.Client{Timeout: timeout},
	}
}

// APIError is any non-2xx answer. Fields is set for 400 validation failures.
type APIError struct {
	Status  int
	Message string
	Fields  []app.FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		return fmt.Sprintf("my-hotels: status %d: %s", e.Status, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("my-hotels: status %d: %s", e.Status, e.Message)
}

// FormValues renders a hotel as the add-hotel form submits it.
func FormValues(in domain.HotelInput) url.Values {
	v := url.Values{}
	v.Set("name", in.Name)
	v.Set("city", in.City)
	v.Set("country", in.Country)
	v.Set("description", in.Description)
	v.Set("type", in.Type)
	v.Set("pricePerNight", strconv.FormatFloat(in.PricePerNight, 'f', -1, 64))
	if in.StarRating > 0 {
		v.Set("starRating", strconv.Itoa(in.StarRating))
	}
	v.Set("adultCount", strconv.Itoa(in.AdultCount))
	v.Set("childCount", strconv.Itoa(in.ChildCount))
	for i, f := range in.Facilities {
		v.Set(fmt.Sprintf("facilities[%d]", i), f)
	}
	return v
}

func (c *Client) CreateHotel(ctx context.Context, in domain.HotelInput, images []domain.Image) (domain.Hotel, error) {
	return c.Submit(ctx, FormValues(in), images)
}

// Submit posts raw form values, for callers that need fields the typed input cannot express.
func (c *Client) Submit(ctx context.Context, values url.Values, images []domain.Image) (domain.Hotel, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range values {
		for _, v := range vs {
			if err := mw.WriteField(k, v); err != nil {
				return domain.Hotel{}, err
			}
		}
	}
	for _, img := range images {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="imageFiles"; filename=%q`, img.Filename))
		mime := img.MIMEType
		if mime == "" {
			mime = "application/octet-stream"
		}
		h.Set("Content-Type", mime)
		w, err := mw.CreatePart(h)
		if err != nil {
			return domain.Hotel{}, err
		}
		if _, err := w.Write(img.Data); err != nil {
			return domain.Hotel{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return domain.Hotel{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.base, &buf)
	if err != nil {
		return domain.Hotel{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out domain.Hotel
	return out, c.do(req, http.StatusCreated, &out)
}

func (c *Client) ListMyHotels(ctx context.Context) ([]domain.Hotel, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.base, nil)
	if err != nil {
		return nil, err
	}
	var out []domain.Hotel
	return out, c.do(req, http.StatusOK, &out)
}

func (c *Client) GetMyHotel(ctx context.Context, id string) (domain.Hotel, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.base+"/"+url.PathEscape(id), nil)
	if err != nil {
		return domain.Hotel{}, err
	}
	var out domain.Hotel
	return out, c.do(req, http.StatusOK, &out)
}

func (c *Client) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, want int, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == want {
		return json.NewDecoder(resp.Body).Decode(out)
	}

	// read a small error body for diagnostics
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode}
	var fields []app.FieldError
	var msg struct {
		Message string `json:"message"`
	}
	switch {
	case json.Unmarshal(b, &fields) == nil:
		apiErr.Fields = fields
	case json.Unmarshal(b, &msg) == nil && msg.Message != "":
		apiErr.Message = msg.Message
	default:
		apiErr.Message = strings.TrimSpace(string(b))
	}
	return apiErr
}
