package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/httpx"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	userAgent      = "BiteWise-Merchant-Service/1.0"
)

type Point struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name,omitempty"`
}

type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

// String joins the non-empty components in postal order.
func (a Address) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.City, a.State, a.PostalCode, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type Geocoder interface {
	// Geocode returns nil, nil when the address has no usable result.
	Geocode(ctx context.Context, query string) (*Point, error)
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

type nominatim struct {
	log        *logger.Logger
	baseURL    string
	http       *http.Client
	maxRetries int
}

func NewNominatim(log *logger.Logger, cfg Config) (Geocoder, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &nominatim{
		log:        log.With("client", "Nominatim"),
		baseURL:    base,
		http:       &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
	}, nil
}

type searchHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (n *nominatim) Geocode(ctx context.Context, query string) (*Point, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("addressdetails", "1")
	endpoint := n.baseURL + "/search?" + q.Encode()

	backoff := 500 * time.Millisecond
	for attempt := 0; ; attempt++ {
		hits, err := n.search(ctx, endpoint)
		if err == nil {
			return firstPoint(hits), nil
		}
		if !httpx.IsRetryableError(err) || attempt >= n.maxRetries {
			return nil, err
		}
		n.log.Warn("geocode retrying", "attempt", attempt+1, "error", err.Error())
		if sErr := httpx.Sleep(ctx, httpx.JitterSleep(backoff)); sErr != nil {
			return nil, sErr
		}
		backoff *= 2
	}
}

func (n *nominatim) search(ctx context.Context, endpoint string) ([]searchHit, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return nil, &httpx.StatusError{Service: "nominatim", StatusCode: resp.StatusCode, Body: string(raw)}
	}
	var hits []searchHit
	if err := json.Unmarshal(raw, &hits); err != nil {
		return nil, fmt.Errorf("decode nominatim response: %w", err)
	}
	return hits, nil
}

// Zero coordinates are treated as no result.
func firstPoint(hits []searchHit) *Point {
	if len(hits) == 0 {
		return nil
	}
	lat, errLat := strconv.ParseFloat(hits[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(hits[0].Lon, 64)
	if errLat != nil || errLon != nil || lat == 0 || lon == 0 {
		return nil
	}
	return &Point{Lat: lat, Lon: lon, DisplayName: hits[0].DisplayName}
}
