package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// Result is one forward-geocoding candidate.
type Result struct {
	Lat         float64
	Lng         float64
	DisplayName string
}

// Geocoder resolves a free-text address to coordinates. A nil result with
// a nil error means the address was not found.
type Geocoder interface {
	Forward(ctx context.Context, address string) (*Result, error)
}

// NominatimGeocoder implements Geocoder using OSM Nominatim.
// CAUTION: Requires User-Agent and has strict rate limits (1 req/sec)
type NominatimGeocoder struct {
	UserAgent string
	Client    *http.Client
	// BaseURL overrides the Nominatim endpoint, mainly for tests.
	BaseURL string

	mu       sync.Mutex
	lastCall time.Time
}

const nominatimBaseURL = "https://nominatim.openstreetmap.org"

func (g *NominatimGeocoder) Forward(ctx context.Context, address string) (*Result, error) {
	g.mu.Lock()
	elapsed := time.Since(g.lastCall)
	if elapsed < time.Second {
		time.Sleep(time.Second - elapsed)
	}
	g.lastCall = time.Now()
	g.mu.Unlock()

	base := g.BaseURL
	if base == "" {
		base = nominatimBaseURL
	}
	u := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", base, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.UserAgent)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim error: %d", resp.StatusCode)
	}

	// Nominatim returns a ranked candidate list with stringified floats.
	var data []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, nil // Not found
	}

	first := data[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim returned bad latitude %q: %w", first.Lat, err)
	}
	lng, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim returned bad longitude %q: %w", first.Lon, err)
	}

	return &Result{
		Lat:         lat,
		Lng:         lng,
		DisplayName: first.DisplayName,
	}, nil
}
