package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"wanderplan/config"
)

// ─── Flights Client ───────────────────────────────────────────────────────────

type FlightsClient struct {
	apiKey     string
	apiHost    string
	baseURL    string
	httpClient *http.Client
}

var flightsClient *FlightsClient

func InitFlights(cfg *config.Config) {
	flightsClient = NewFlightsClient(cfg.FlightsAPIKey, cfg.FlightsAPIHost, cfg.FlightsBaseURL, cfg.HTTPTimeout)
	if cfg.FlightsWebBase != "" {
		flightsWebBase = cfg.FlightsWebBase
	}
	if cfg.FlightsAPIKey == "" {
		log.Println("FLIGHTS_API_KEY not set — flight search disabled")
	}
}

func GetFlightsClient() *FlightsClient {
	return flightsClient
}

func NewFlightsClient(apiKey, apiHost, baseURL string, timeout time.Duration) *FlightsClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FlightsClient{
		apiKey:  apiKey,
		apiHost: apiHost,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type flightsAPIResponse struct {
	Status bool                 `json:"status"`
	Data   FlightSearchResponse `json:"data"`
}

// SearchRoundTrip queries the provider for round-trip itineraries and returns
// the raw graph-shaped payload for normalization.
func (c *FlightsClient) SearchRoundTrip(ctx context.Context, origin, destination, departureDate, returnDate string, adults int, currency string) (*FlightSearchResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("flights provider not configured")
	}

	params := url.Values{}
	params.Set("originSkyId", origin)
	params.Set("destinationSkyId", destination)
	params.Set("date", departureDate)
	params.Set("returnDate", returnDate)
	params.Set("adults", fmt.Sprintf("%d", adults))
	params.Set("currency", currency)

	req, err := http.NewRequestWithContext(ctx, "GET",
		c.baseURL+"/api/v2/flights/searchFlights?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flight search failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flights provider error (%d): %s", resp.StatusCode, string(body))
	}

	var parsed flightsAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse flight search response: %w", err)
	}
	return &parsed.Data, nil
}
