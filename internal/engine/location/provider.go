package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nbilal/homepin/internal/model"
)

// DefaultLocateURL is a coarse IP-geolocation endpoint. City-level accuracy
// is enough here: the markers around the fix are synthetic anyway.
const DefaultLocateURL = "http://ip-api.com/json"

type ipLocateResult struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// IPLocator resolves the device position from its public IP address.
type IPLocator struct {
	url    string
	client *http.Client
}

func NewIPLocator(url string) *IPLocator {
	if url == "" {
		url = DefaultLocateURL
	}
	return &IPLocator{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Locate performs one position query.
func (l *IPLocator) Locate(ctx context.Context) (model.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", l.url, nil)
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "homepin/0.1 (terminal real-estate map)")

	resp, err := l.client.Do(req)
	if err != nil {
		return model.Coordinate{}, fmt.Errorf("locate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Coordinate{}, fmt.Errorf("locate returned status %d", resp.StatusCode)
	}

	var result ipLocateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return model.Coordinate{}, fmt.Errorf("decoding locate response: %w", err)
	}
	if result.Status != "" && result.Status != "success" {
		return model.Coordinate{}, fmt.Errorf("locate failed: %s", result.Message)
	}

	return model.Coordinate{Latitude: result.Lat, Longitude: result.Lon}, nil
}
