package airtable

import (
	"fmt"
	"net/http"
	"time"
)

const (
	DefaultAPIURL  = "https://api.airtable.com/v0"
	DefaultTimeout = 15 * time.Second
)

// Config holds Airtable client configuration.
type Config struct {
	APIKey     string
	BaseID     string
	APIURL     string
	HTTPClient *http.Client
}

// Validate validates the configuration and fills defaults.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("airtable: APIKey is required")
	}
	if c.BaseID == "" {
		return fmt.Errorf("airtable: BaseID is required")
	}
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return nil
}

// Record is a created Airtable row.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}

// Attachment is the write shape of an attachment cell.
type Attachment struct {
	URL string `json:"url"`
}

type createRequest struct {
	Fields   map[string]any `json:"fields"`
	Typecast bool           `json:"typecast,omitempty"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// APIError is a non-2xx reply from Airtable.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("airtable: API error %d: %s", e.StatusCode, e.Type)
	}
	return fmt.Sprintf("airtable: API error %d %s: %s", e.StatusCode, e.Type, e.Message)
}
