package app

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

/********** tiny helpers **********/

// formStr returns the first value for key, trimmed.
func formStr(v url.Values, key string) string {
	return strings.TrimSpace(v.Get(key))
}

// formInt parses an optional whole number; blanks and junk become 0.
func formInt(v url.Values, key string) int {
	n, err := strconv.Atoi(formStr(v, key))
	if err != nil {
		return 0
	}
	return n
}

func formFloat(v url.Values, key string) float64 {
	f, err := strconv.ParseFloat(formStr(v, key), 64)
	if err != nil {
		return 0
	}
	return f
}

// facilities collects the facility list from any of the shapes a browser form
// produces: facilities[]=a, facilities[0]=a&facilities[1]=b, repeated
// facilities=a&facilities=b, or a single JSON array. A lone scalar is not a list.
func facilities(v url.Values) []string {
	var out []string

	if vals, ok := v["facilities[]"]; ok {
		out = append(out, vals...)
	}

	var indexed []string
	for k := range v {
		if k != "facilities[]" && isFacilitiesKey(k) {
			indexed = append(indexed, k)
		}
	}
	sort.Slice(indexed, func(i, j int) bool {
		return bracketIndex(indexed[i]) < bracketIndex(indexed[j])
	})
	for _, k := range indexed {
		out = append(out, v[k]...)
	}

	switch bare := v["facilities"]; {
	case len(bare) > 1:
		out = append(out, bare...)
	case len(bare) == 1 && looksLikeJSONArray(bare[0]):
		var arr []string
		if err := json.Unmarshal([]byte(bare[0]), &arr); err != nil {
			log.Debug().Err(err).Str("context", "facilities").Msg("facilities is not a JSON string array")
		} else {
			out = append(out, arr...)
		}
	}

	return trimmedNonEmpty(out)
}

func bracketIndex(k string) int {
	n, _ := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(k, "facilities["), "]"))
	return n
}

/********** form -> domain **********/

// toHotelInput maps a validated form. Only whitelisted fields are read, so
// userId/lastUpdated/imageUrls in the submission are ignored.
func toHotelInput(v url.Values) domain.HotelInput {
	return domain.HotelInput{
		Name:          formStr(v, "name"),
		City:          formStr(v, "city"),
		Country:       formStr(v, "country"),
		Description:   formStr(v, "description"),
		Type:          formStr(v, "type"),
		AdultCount:    formInt(v, "adultCount"),
		ChildCount:    formInt(v, "childCount"),
		Facilities:    facilities(v),
		PricePerNight: formFloat(v, "pricePerNight"),
		StarRating:    formInt(v, "starRating"),
	}
}

// dataURI encodes an image the way the media host accepts string payloads.
func dataURI(img domain.Image) string {
	mime := img.MIMEType
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
