package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flockr/apierr"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

type currentResponse struct {
	Success *bool `json:"success"`
	Error   *struct {
		Info string `json:"info"`
	} `json:"error"`
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
	Current struct {
		Temperature         float64  `json:"temperature"`
		WeatherDescriptions []string `json:"weather_descriptions"`
	} `json:"current"`
}

// Lookup fetches current conditions and renders them as a chat line.
func (c *Client) Lookup(ctx context.Context, location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", apierr.Input("Location is not a real place")
	}
	if c.apiKey == "" {
		return "", apierr.Input("Weather lookup is not configured")
	}

	q := url.Values{}
	q.Set("access_key", c.apiKey)
	q.Set("query", location)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/current?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather request: unexpected status %d", resp.StatusCode)
	}

	var payload currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode weather response: %w", err)
	}
	if (payload.Success != nil && !*payload.Success) || payload.Error != nil {
		return "", apierr.Input("Location is not a real place")
	}
	if payload.Location.Name == "" || payload.Location.Name == "Weather" {
		return "", apierr.Input("Location is not a real place")
	}

	desc := "unknown"
	if len(payload.Current.WeatherDescriptions) > 0 {
		desc = payload.Current.WeatherDescriptions[0]
	}
	return fmt.Sprintf("The weather in %s (%s) is %s and %gºC",
		payload.Location.Name, payload.Location.Country, desc, payload.Current.Temperature), nil
}
