package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Client is the HTTP wrapper for the Airtable REST API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New creates an Airtable client bound to one base.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    fmt.Sprintf("%s/%s", cfg.APIURL, cfg.BaseID),
		httpClient: cfg.HTTPClient,
	}, nil
}

// CreateRecord inserts one row into table. With typecast set Airtable
// converts string values into select options and linked records.
func (c *Client) CreateRecord(ctx context.Context, table string, fields map[string]any, typecast bool) (*Record, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(table))

	body, err := json.Marshal(createRequest{Fields: fields, Typecast: typecast})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal create record request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build create record request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call airtable create API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read airtable response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil && er.Error.Type != "" {
			apiErr.Type, apiErr.Message = er.Error.Type, er.Error.Message
		} else {
			apiErr.Type = string(raw)
		}
		return nil, apiErr
	}

	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to decode airtable create response: %w", err)
	}
	if record.ID == "" {
		return nil, fmt.Errorf("airtable: create response missing record id")
	}
	return &record, nil
}
