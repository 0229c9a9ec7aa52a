package serviceImp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"soilwatch/pkg/rounding"
	"soilwatch/pkg/weather/service"
)

const (
	maxBody     = 1 << 20
	msToKph     = 3.6
	tripAfter   = 5
	isoUTCMilli = "2006-01-02T15:04:05.000Z"
)

type openWeather struct {
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	log     *zap.SugaredLogger
	now     func() time.Time
}

// NewOpenWeather proxies the OpenWeather current-weather endpoint. Calls are
// never retried; repeated upstream 5xx or transport failures open the breaker.
func NewOpenWeather(client *http.Client, baseURL, apiKey string, log *zap.SugaredLogger) service.WeatherService {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "openweather",
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= tripAfter
		},
		IsSuccessful: func(err error) bool {
			// a caller that went away says nothing about upstream health
			if errors.Is(err, context.Canceled) {
				return true
			}
			var werr *service.Error
			if errors.As(err, &werr) && werr.Kind == service.KindUpstream {
				return werr.Status < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnw("weather circuit breaker", "from", from.String(), "to", to.String())
		},
	})
	return &openWeather{apiKey: apiKey, baseURL: baseURL, client: client, circuit: cb, log: log, now: time.Now}
}

func (p *openWeather) Configured() bool { return p.apiKey != "" }

func (p *openWeather) Current(ctx context.Context, q service.Query) (*service.Report, error) {
	if !p.Configured() {
		return nil, service.ErrNotConfigured
	}
	values := url.Values{}
	if q.HasCoord {
		values.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(q.Lon, 'f', -1, 64))
	} else {
		values.Set("q", q.Place)
	}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")

	res, err := p.circuit.Execute(func() (interface{}, error) {
		return p.fetch(ctx, p.baseURL+"?"+values.Encode())
	})
	if err != nil {
		var werr *service.Error
		switch {
		case errors.As(err, &werr):
			return nil, werr
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return nil, &service.Error{Kind: service.KindUpstream, Detail: "circuit breaker open", Err: err}
		}
		return nil, &service.Error{Kind: service.KindInternal, Err: err}
	}
	return p.normalize(res.(*owPayload)), nil
}

type owPayload struct {
	Dt   int64  `json:"dt"`
	Name string `json:"name"`
	Main struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}

func (p *openWeather) fetch(ctx context.Context, u string) (*owPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read weather body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.log.Warnw("weather upstream error", "status", resp.StatusCode)
		return nil, &service.Error{Kind: service.KindUpstream, Status: resp.StatusCode, Detail: string(body)}
	}
	var out owPayload
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode weather: %w", err)
	}
	return &out, nil
}

func (p *openWeather) normalize(in *owPayload) *service.Report {
	out := &service.Report{
		TempC:    in.Main.Temp,
		Humidity: in.Main.Humidity,
		City:     in.Name,
		Country:  in.Sys.Country,
	}
	if len(in.Weather) > 0 {
		out.Description = in.Weather[0].Description
		out.Icon = in.Weather[0].Icon
	}
	if in.Wind.Speed != nil {
		kph := int(rounding.HalfUp(*in.Wind.Speed*msToKph, 0))
		out.WindKph = &kph
	}
	ts := p.now()
	if in.Dt != 0 {
		ts = time.Unix(in.Dt, 0)
	}
	out.DT = ts.UTC().Format(isoUTCMilli)
	return out
}
