package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"yellow-taxi-trips/models"
)

// HTTPSource fetches the trip array from the upstream data API in a single
// GET. Failures are not retried.
type HTTPSource struct {
	httpClient *http.Client
	url        string
}

// NewHTTPSource constructs a source for url. A nil client gets one with timeout.
func NewHTTPSource(httpClient *http.Client, url string, timeout time.Duration) *HTTPSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &HTTPSource{httpClient: httpClient, url: url}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]models.RawTrip, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch trips: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch trips: upstream status %d: %s", resp.StatusCode, body)
	}

	var out []models.RawTrip
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode trips: %w", err)
	}
	return out, nil
}
