package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lox/skypulse/internal/httputil"
	"github.com/lox/skypulse/internal/models"
)

const DefaultForecastURL = "https://api.open-meteo.com"

const (
	currentTimeLayout = "2006-01-02T15:04"
	dailyDateLayout   = "2006-01-02"
)

type ForecastResponse struct {
	Timezone         string          `json:"timezone"`
	UTCOffsetSeconds int             `json:"utc_offset_seconds"`
	CurrentWeather   *CurrentWeather `json:"current_weather"`
	Daily            *DailySeries    `json:"daily"`
}

type CurrentWeather struct {
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"windspeed"`
	WindDirection float64 `json:"winddirection"`
	WeatherCode   int     `json:"weathercode"`
	Time          string  `json:"time"`
}

// DailySeries holds the provider's parallel daily arrays. Elements may be
// null when the model has no value for a day.
type DailySeries struct {
	Time        []string   `json:"time"`
	WeatherCode []*int     `json:"weathercode"`
	TempMax     []*float64 `json:"temperature_2m_max"`
	TempMin     []*float64 `json:"temperature_2m_min"`
}

// ForecastClient fetches current conditions and the daily series for a
// coordinate pair.
type ForecastClient struct {
	fetcher
	baseURL string
}

func NewForecastClient(baseURL string, client *http.Client, log *zap.SugaredLogger) *ForecastClient {
	if baseURL == "" {
		baseURL = DefaultForecastURL
	}
	if client == nil {
		client = httputil.NewClient(0)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ForecastClient{
		fetcher: fetcher{client: client, log: log},
		baseURL: baseURL,
	}
}

// SetRecorder enables auditing of every forecast call.
func (f *ForecastClient) SetRecorder(runs RunRecorder) {
	f.runs = runs
}

func (f *ForecastClient) Fetch(ctx context.Context, lat, lon float64) (*models.Snapshot, error) {
	u, err := endpointURL(f.baseURL, "/v1/forecast")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("latitude", formatCoord(lat))
	q.Set("longitude", formatCoord(lon))
	q.Set("current_weather", "true")
	q.Set("daily", "weathercode,temperature_2m_max,temperature_2m_min")
	q.Set("timezone", "auto")
	u.RawQuery = q.Encode()

	var data ForecastResponse
	err = f.getJSON(ctx, request{
		source:   "forecast",
		endpoint: "forecast",
		url:      u,
		query:    fmt.Sprintf("%s,%s", formatCoord(lat), formatCoord(lon)),
		failMsg:  "Failed to fetch weather",
		records:  data.days,
	}, &data)
	if err != nil {
		return nil, err
	}

	snap, flags, err := data.Snapshot()
	if err != nil {
		return nil, err
	}
	if len(flags) > 0 {
		f.log.Warnw("forecast response failed validation", "lat", lat, "lon", lon, "flags", flags)
	}
	return snap, nil
}

// Snapshot normalizes the response. The returned flags describe repairs made
// to the daily series.
func (r *ForecastResponse) Snapshot() (*models.Snapshot, []string, error) {
	if r.CurrentWeather == nil {
		return nil, nil, errors.New("forecast response has no current_weather")
	}

	loc := r.location()
	observedAt, err := time.ParseInLocation(currentTimeLayout, r.CurrentWeather.Time, loc)
	if err != nil {
		return nil, nil, fmt.Errorf("parse current_weather.time %q: %w", r.CurrentWeather.Time, err)
	}

	snap := &models.Snapshot{
		Current: models.CurrentConditions{
			Temperature:   r.CurrentWeather.Temperature,
			WindSpeed:     r.CurrentWeather.WindSpeed,
			WindDirection: r.CurrentWeather.WindDirection,
			WeatherCode:   r.CurrentWeather.WeatherCode,
			ObservedAt:    observedAt,
		},
		Timezone: r.Timezone,
	}

	var flags []string
	if r.Daily != nil {
		snap.TodayMax = first(r.Daily.TempMax)
		snap.TodayMin = first(r.Daily.TempMin)

		var daily models.DailyForecast
		daily, flags, err = r.Daily.Normalize(loc)
		if err != nil {
			return nil, nil, err
		}
		snap.Daily = daily
	}
	flags = append(flags, ValidateCurrent(snap.Current)...)

	return snap, flags, nil
}

// days is the number of entries in the daily series.
func (r *ForecastResponse) days() int {
	if r.Daily == nil {
		return 0
	}
	return len(r.Daily.Time)
}

func (r *ForecastResponse) location() *time.Location {
	if r.Timezone != "" {
		if loc, err := time.LoadLocation(r.Timezone); err == nil {
			return loc
		}
	}
	if r.UTCOffsetSeconds != 0 {
		return time.FixedZone(r.Timezone, r.UTCOffsetSeconds)
	}
	return time.UTC
}

// first returns the first element, or nil when the series is missing, empty
// or starts with null.
func first(series []*float64) *float64 {
	if len(series) == 0 || series[0] == nil {
		return nil
	}
	v := *series[0]
	return &v
}
