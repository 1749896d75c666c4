package client

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Search path layouts
const (
	SearchQuery = "query" // GET /contacts?query=<text>
	SearchSplit = "split" // GET /contacts/search?q=<text> when searching
)

// DefaultFields is the projection requested when ClientConfig.Fields is empty.
const DefaultFields = "id,firstName,lastName,email,phone,address"

// ClientConfig represents configuration for the contact service client
type ClientConfig struct {
	BaseURL    string        `json:"base_url"`
	Timeout    time.Duration `json:"timeout"`
	Fields     string        `json:"fields"`
	SearchPath string        `json:"search_path"`

	HTTPClient *http.Client `json:"-"` // Optional; built from Timeout when nil
	Logger     *zap.Logger  `json:"-"` // Optional; no-op when nil
}

// DefaultClientConfig returns a default client configuration for baseURL
func DefaultClientConfig(baseURL string) *ClientConfig {
	return &ClientConfig{
		BaseURL:    baseURL,
		Timeout:    10 * time.Second,
		Fields:     DefaultFields,
		SearchPath: SearchQuery,
	}
}
