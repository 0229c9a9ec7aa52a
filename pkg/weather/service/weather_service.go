package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

type Kind string

const (
	KindConfigMissing Kind = "configuration_missing"
	KindBadRequest    Kind = "bad_request"
	KindUpstream      Kind = "upstream_error"
	KindInternal      Kind = "internal_error"
)

func (k Kind) HTTPStatus() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUpstream:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Error carries one of the proxy error kinds. Status is the upstream HTTP
// status for KindUpstream, zero otherwise.
type Error struct {
	Kind   Kind
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Status != 0 {
		msg += " (" + strconv.Itoa(e.Status) + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

var ErrNotConfigured = &Error{Kind: KindConfigMissing, Detail: "Missing WEATHER_API_KEY"}

// Query selects a place either by coordinates or by name.
type Query struct {
	Lat, Lon float64
	HasCoord bool
	Place    string
}

// ParseQuery prefers lat+lon over q, like the dashboard client sends them.
func ParseQuery(lat, lon, q string) (Query, error) {
	lat, lon, q = strings.TrimSpace(lat), strings.TrimSpace(lon), strings.TrimSpace(q)
	if lat != "" && lon != "" {
		la, err1 := strconv.ParseFloat(lat, 64)
		lo, err2 := strconv.ParseFloat(lon, 64)
		if err1 != nil || err2 != nil || la < -90 || la > 90 || lo < -180 || lo > 180 {
			return Query{}, &Error{Kind: KindBadRequest, Detail: fmt.Sprintf("invalid coordinates %q,%q", lat, lon)}
		}
		return Query{Lat: la, Lon: lo, HasCoord: true}, nil
	}
	if q != "" {
		return Query{Place: q}, nil
	}
	return Query{}, &Error{Kind: KindBadRequest, Detail: "Provide lat/lon or q"}
}

// Report is the normalized current weather.
type Report struct {
	TempC       *float64 `json:"tempC"`
	Humidity    *float64 `json:"humidity"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	WindKph     *int     `json:"windKph"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	DT          string   `json:"dt"`
}

type WeatherService interface {
	Configured() bool
	Current(ctx context.Context, q Query) (*Report, error)
}
