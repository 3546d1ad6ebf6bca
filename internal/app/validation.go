package app

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"hotel_booking/internal/domain"
)

// HotelForm is the raw create-hotel submission: text fields plus in-memory image parts.
type HotelForm struct {
	Values url.Values
	Images []domain.Image
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every rule a submission broke.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

type fieldRule struct {
	field   string
	valid   func(f HotelForm) bool
	message string
}

var validate = validator.New()

// hotelRules is evaluated top to bottom; every failing rule is reported.
var hotelRules = []fieldRule{
	{"name", text("name", "required"), "Name is required"},
	{"city", text("city", "required"), "City is required"},
	{"country", text("country", "required"), "Country is required"},
	{"description", text("description", "required"), "Description is required"},
	{"type", text("type", "required"), "Hotel type is required"},
	{"pricePerNight", price, "Price per night is required and must be a number"},
	{"facilities", func(f HotelForm) bool { return len(facilities(f.Values)) > 0 }, "Facilities are required"},
	{"starRating", text("starRating", "omitempty,oneof=1 2 3 4 5"), "Star rating must be between 1 and 5"},
	{"adultCount", count("adultCount"), "Adult count must be a whole number"},
	{"childCount", count("childCount"), "Child count must be a whole number"},
	{"imageFiles", func(f HotelForm) bool { return len(f.Images) <= domain.MaxImages }, fmt.Sprintf("At most %d images are allowed", domain.MaxImages)},
	{"imageFiles", imageSizes, "Each image must be 5MB or smaller"},
}

// ValidateHotelForm returns nil when the form is acceptable.
func ValidateHotelForm(f HotelForm) ValidationErrors {
	var errs ValidationErrors
	for _, r := range hotelRules {
		if !r.valid(f) {
			errs = append(errs, FieldError{Field: r.field, Message: r.message})
		}
	}
	return errs
}

// text checks a single trimmed form value against validator tags.
func text(field, tag string) func(HotelForm) bool {
	return func(f HotelForm) bool {
		return validate.Var(formStr(f.Values, field), tag) == nil
	}
}

func price(f HotelForm) bool {
	v := formStr(f.Values, "pricePerNight")
	if validate.Var(v, "required,numeric") != nil {
		return false
	}
	p, err := strconv.ParseFloat(v, 64)
	return err == nil && p >= 0
}

// count accepts a blank value or a non-negative whole number that fits an int.
func count(field string) func(HotelForm) bool {
	return func(f HotelForm) bool {
		v := formStr(f.Values, field)
		if v == "" {
			return true
		}
		if validate.Var(v, "number") != nil {
			return false
		}
		n, err := strconv.Atoi(v)
		return err == nil && n >= 0
	}
}

func imageSizes(f HotelForm) bool {
	for _, img := range f.Images {
		if len(img.Data) > domain.MaxImageBytes {
			return false
		}
	}
	return true
}

// isFacilitiesKey matches facilities[] and facilities[N].
func isFacilitiesKey(k string) bool {
	if !strings.HasPrefix(k, "facilities[") || !strings.HasSuffix(k, "]") {
		return false
	}
	idx := k[len("facilities[") : len(k)-1]
	if idx == "" {
		return true
	}
	_, err := strconv.Atoi(idx)
	return err == nil
}

// keep only "[...]" JSON arrays as a single bare value
func looksLikeJSONArray(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
}

func trimmedNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
