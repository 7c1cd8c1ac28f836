// Package geocode implements the reverse-geocoding collaborator: it maps a
// coordinate pair to a display address over a Nominatim-compatible HTTP API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/LimHyeonGyu/wayferecicd/internal/config"
	"github.com/LimHyeonGyu/wayferecicd/internal/geo"

	"github.com/rs/zerolog"
)

// Client calls the reverse-geocoding service.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a new geocoding client.
func New(cfg config.GeocodingConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		language:   cfg.Language,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// reverseResponse is the subset of the reverse endpoint's JSON body we use.
type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// ReverseGeocode maps a lat/lng pair to a human-readable address. The context
// bounds the HTTP call; any failure surfaces to the caller and must abort the
// operation that needed the address.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	if err := geo.ValidateLatLng(lat, lng); err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("format", "jsonv2")
	if c.language != "" {
		params.Set("accept-language", c.language)
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create reverse geocode request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse geocode returned status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode reverse geocode response: %w", err)
	}
	if body.Error != "" {
		return "", fmt.Errorf("reverse geocode error: %s", body.Error)
	}
	if body.DisplayName == "" {
		return "", fmt.Errorf("reverse geocode returned no address for %f,%f", lat, lng)
	}

	c.logger.Debug().
		Float64("lat", lat).
		Float64("lng", lng).
		Dur("duration", time.Since(start)).
		Msg("Resolved address")

	return body.DisplayName, nil
}
