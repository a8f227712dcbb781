package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/lox/skypulse/internal/httputil"
	"github.com/lox/skypulse/internal/models"
)

const (
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com"

	// FallbackLocationName is shown when reverse geocoding cannot name a
	// position that is already known to be valid.
	FallbackLocationName = "Your location"
)

type GeocodingResponse struct {
	Results []GeocodingResult `json:"results"`
}

type GeocodingResult struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Admin1    string  `json:"admin1"`
	Admin2    string  `json:"admin2"`
	Country   string  `json:"country"`
}

// DisplayName joins the present fields of a result in the fixed order
// name, admin2, admin1, country.
func (r GeocodingResult) DisplayName() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{r.Name, r.Admin2, r.Admin1, r.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Geocoder resolves place names to coordinates and back.
type Geocoder struct {
	fetcher
	baseURL string
}

func NewGeocoder(baseURL string, client *http.Client, log *zap.SugaredLogger) *Geocoder {
	if baseURL == "" {
		baseURL = DefaultGeocodingURL
	}
	if client == nil {
		client = httputil.NewClient(0)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Geocoder{
		fetcher: fetcher{client: client, log: log},
		baseURL: baseURL,
	}
}

// SetRecorder enables auditing of every geocoding call.
func (g *Geocoder) SetRecorder(runs RunRecorder) {
	g.runs = runs
}

// ResolveByName returns the best match for query. Callers skip blank queries.
func (g *Geocoder) ResolveByName(ctx context.Context, query string) (models.Location, error) {
	u, err := endpointURL(g.baseURL, "/v1/search")
	if err != nil {
		return models.Location{}, err
	}
	q := u.Query()
	q.Set("name", query)
	q.Set("count", "1")
	q.Set("language", "en")
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	var data GeocodingResponse
	err = g.getJSON(ctx, request{
		source:   "geocoding",
		endpoint: "search",
		url:      u,
		query:    query,
		failMsg:  "Failed to fetch location",
		records:  func() int { return len(data.Results) },
	}, &data)
	if err != nil {
		return models.Location{}, err
	}

	if len(data.Results) == 0 {
		return models.Location{}, &NotFoundError{Query: query}
	}

	r := data.Results[0]
	return models.Location{
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		DisplayName: r.DisplayName(),
	}, nil
}

// ResolveByCoordinates names a position. It never fails: any error yields
// FallbackLocationName.
func (g *Geocoder) ResolveByCoordinates(ctx context.Context, lat, lon float64) string {
	name, err := g.reverse(ctx, lat, lon)
	if err != nil {
		g.log.Debugw("reverse geocode failed, using fallback name", "lat", lat, "lon", lon, "error", errorDetail(err))
		return FallbackLocationName
	}
	return name
}

func (g *Geocoder) reverse(ctx context.Context, lat, lon float64) (string, error) {
	u, err := endpointURL(g.baseURL, "/v1/search")
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("latitude", formatCoord(lat))
	q.Set("longitude", formatCoord(lon))
	q.Set("count", "1")
	q.Set("language", "en")
	u.RawQuery = q.Encode()

	var data GeocodingResponse
	err = g.getJSON(ctx, request{
		source:   "geocoding",
		endpoint: "reverse",
		url:      u,
		query:    fmt.Sprintf("%s,%s", formatCoord(lat), formatCoord(lon)),
		failMsg:  "Failed to fetch location",
		records:  func() int { return len(data.Results) },
	}, &data)
	if err != nil {
		return "", err
	}
	if len(data.Results) == 0 {
		return "", errors.New("no reverse geocoding results")
	}
	name := data.Results[0].DisplayName()
	if name == "" {
		return "", errors.New("reverse geocoding result has no name")
	}
	return name, nil
}
