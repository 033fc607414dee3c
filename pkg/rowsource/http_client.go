package rowsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPConfig configures the HTTP record source.
type HTTPConfig struct {
	URL        string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient fetches records from a REST endpoint. The endpoint may answer
// with a bare JSON array or an object carrying the array under "rows".
type HTTPClient struct {
	url    string
	apiKey string
	client *http.Client
}

// NewHTTPClient builds a client capable of hitting live record APIs.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("rowsource: url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: httpClient,
	}, nil
}

// Records implements datatable.RecordSource.
func (c *HTTPClient) Records(ctx context.Context) ([]json.RawMessage, error) {
	var body json.RawMessage
	if err := c.do(ctx, http.MethodGet, &body); err != nil {
		return nil, err
	}
	return decodeEnvelope(body)
}

func (c *HTTPClient) do(ctx context.Context, method string, target any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.url, nil)
	if err != nil {
		return fmt.Errorf("rowsource: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("rowsource: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("rowsource: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("rowsource: decode response: %w", err)
	}
	return nil
}

type envelope struct {
	Rows []json.RawMessage `json:"rows"`
}

func decodeEnvelope(body json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []json.RawMessage
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("rowsource: decode rows: %w", err)
		}
		return rows, nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("rowsource: decode envelope: %w", err)
	}
	if env.Rows == nil {
		return nil, fmt.Errorf("rowsource: response has no rows")
	}
	return env.Rows, nil
}
