package app_test

import (
	"net/url"
	"strings"
	"testing"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

func fields(errs app.ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateHotelForm_Valid(t *testing.T) {
	imgs, _ := images(domain.MaxImages)
	if errs := app.ValidateHotelForm(app.HotelForm{Values: validValues(), Images: imgs}); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidateHotelForm_EachRequiredField(t *testing.T) {
	msgs := map[string]string{
		"name":          "Name is required",
		"city":          "City is required",
		"country":       "Country is required",
		"description":   "Description is required",
		"type":          "Hotel type is required",
		"pricePerNight": "Price per night is required and must be a number",
	}
	for field, msg := range msgs {
		t.Run(field, func(t *testing.T) {
			v := validValues()
			v.Del(field)
			errs := app.ValidateHotelForm(app.HotelForm{Values: v})
			if len(errs) != 1 || errs[0].Field != field || errs[0].Message != msg {
				t.Fatalf("got %+v", errs)
			}

			v.Set(field, "   ")
			if errs := app.ValidateHotelForm(app.HotelForm{Values: v}); len(errs) != 1 {
				t.Fatalf("blank %s accepted: %+v", field, errs)
			}
		})
	}

	t.Run("facilities", func(t *testing.T) {
		v := validValues()
		v.Del("facilities[0]")
		v.Del("facilities[1]")
		errs := app.ValidateHotelForm(app.HotelForm{Values: v})
		if len(errs) != 1 || errs[0].Field != "facilities" || errs[0].Message != "Facilities are required" {
			t.Fatalf("got %+v", errs)
		}
	})
}

func TestValidateHotelForm_AggregatesAllViolations(t *testing.T) {
	errs := app.ValidateHotelForm(app.HotelForm{Values: url.Values{}})
	got := strings.Join(fields(errs), ",")
	want := "name,city,country,description,type,pricePerNight,facilities"
	if got != want {
		t.Fatalf("fields = %s, want %s", got, want)
	}
}

func TestValidateHotelForm_Price(t *testing.T) {
	cases := map[string]bool{
		"100":    true,
		"99.50":  true,
		"0":      true,
		"abc":    false,
		"10e3":   false,
		"-5":     false,
		"1,000":  false,
		"100 $":  false,
		"  120 ": true,
	}
	for in, ok := range cases {
		v := validValues()
		v.Set("pricePerNight", in)
		errs := app.ValidateHotelForm(app.HotelForm{Values: v})
		if ok != (len(errs) == 0) {
			t.Fatalf("price %q: errs=%+v", in, errs)
		}
	}
}

func TestValidateHotelForm_OptionalNumbers(t *testing.T) {
	v := validValues()
	v.Del("starRating")
	v.Del("adultCount")
	v.Del("childCount")
	if errs := app.ValidateHotelForm(app.HotelForm{Values: v}); errs != nil {
		t.Fatalf("optional fields must be optional: %+v", errs)
	}

	v.Set("starRating", "7")
	v.Set("adultCount", "two")
	v.Set("childCount", "-1")
	got := strings.Join(fields(app.ValidateHotelForm(app.HotelForm{Values: v})), ",")
	if got != "starRating,adultCount,childCount" {
		t.Fatalf("fields = %s", got)
	}
}

func TestValidateHotelForm_CountOutOfRange(t *testing.T) {
	for _, raw := range []string{"99999999999999999999", "1.5", "+3"} {
		v := validValues()
		v.Set("adultCount", raw)
		v.Set("childCount", raw)
		got := strings.Join(fields(app.ValidateHotelForm(app.HotelForm{Values: v})), ",")
		if got != "adultCount,childCount" {
			t.Fatalf("%q: fields = %s", raw, got)
		}
	}

	v := validValues()
	v.Set("adultCount", "0")
	v.Set("childCount", " 12 ")
	if errs := app.ValidateHotelForm(app.HotelForm{Values: v}); errs != nil {
		t.Fatalf("in-range counts rejected: %+v", errs)
	}
}

func TestValidateHotelForm_Images(t *testing.T) {
	imgs, _ := images(domain.MaxImages + 1)
	errs := app.ValidateHotelForm(app.HotelForm{Values: validValues(), Images: imgs})
	if len(errs) != 1 || errs[0].Field != "imageFiles" {
		t.Fatalf("too many images: %+v", errs)
	}

	big := []domain.Image{{MIMEType: "image/png", Data: make([]byte, domain.MaxImageBytes+1)}}
	errs = app.ValidateHotelForm(app.HotelForm{Values: validValues(), Images: big})
	if len(errs) != 1 || errs[0].Message != "Each image must be 5MB or smaller" {
		t.Fatalf("oversized image: %+v", errs)
	}

	exact := []domain.Image{{MIMEType: "image/png", Data: make([]byte, domain.MaxImageBytes)}}
	if errs := app.ValidateHotelForm(app.HotelForm{Values: validValues(), Images: exact}); errs != nil {
		t.Fatalf("5MiB exactly must pass: %+v", errs)
	}
}

func TestFacilities_Shapes(t *testing.T) {
	cases := []struct {
		name string
		in   url.Values
		want string
	}{
		{"brackets", url.Values{"facilities[]": {"Parking", "Spa"}}, "Parking|Spa"},
		{"indexed", url.Values{"facilities[10]": {"Spa"}, "facilities[2]": {"Parking"}}, "Parking|Spa"},
		{"repeated", url.Values{"facilities": {"Parking", "Spa"}}, "Parking|Spa"},
		{"json", url.Values{"facilities": {`["Free Wifi","Parking"]`}}, "Free Wifi|Parking"},
		{"scalar", url.Values{"facilities": {"Parking"}}, ""},
		{"blank", url.Values{"facilities[]": {" ", ""}}, ""},
		{"bad json", url.Values{"facilities": {`[1,2`}}, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := strings.Join(app.Facilities(c.in), "|"); got != c.want {
				t.Fatalf("got %q want %q", got, c.want)
			}
		})
	}
}

func TestDataURI(t *testing.T) {
	got := app.DataURI(domain.Image{MIMEType: "image/png", Data: []byte("hi")})
	if got != "data:image/png;base64,aGk=" {
		t.Fatalf("got %s", got)
	}
	if got := app.DataURI(domain.Image{Data: []byte("hi")}); !strings.HasPrefix(got, "data:application/octet-stream;base64,") {
		t.Fatalf("got %s", got)
	}
}
