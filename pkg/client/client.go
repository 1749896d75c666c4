// Package client talks to the Remote Contact Service over HTTP/JSON.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/contact"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

const serviceName = "contact service"

// maxErrorBody bounds the response excerpt carried by a ServiceError.
const maxErrorBody = 512

// Client is the Remote Contact Service client
type Client struct {
	baseURL    string
	fields     string
	searchPath string
	http       *http.Client
	logger     *zap.Logger
}

// New creates a client from config. BaseURL is required.
func New(cfg *ClientConfig) (*Client, error) {
	if cfg == nil || strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.NewValidationError("base_url", "base URL is required", nil)
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, errors.NewValidationError("base_url", "invalid base URL", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fields := cfg.Fields
	if fields == "" {
		fields = DefaultFields
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		fields:     fields,
		searchPath: cfg.SearchPath,
		http:       httpClient,
		logger:     logger,
	}, nil
}

// listURL builds the list/search URL for q.
func (c *Client) listURL(q contact.Query) string {
	params := url.Values{}
	params.Set("skip", strconv.Itoa(q.Skip))
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("fields", c.fields)

	path := "/" + contact.Resource
	if c.searchPath == SearchSplit {
		if q.Searching() {
			path += "/search"
			params.Set("q", q.Search)
		}
	} else {
		params.Set("query", q.Search)
	}
	return c.baseURL + path + "?" + params.Encode()
}

func (c *Client) contactURL(id contact.ID) string {
	return fmt.Sprintf("%s/%s/%d", c.baseURL, contact.Resource, id)
}

// List fetches one page of contacts. An empty search lists everything.
func (c *Client) List(ctx context.Context, q contact.Query) (*contact.Page, error) {
	var page contact.Page
	found, err := c.do(ctx, "list contacts", http.MethodGet, c.listURL(q), nil, &page)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.NewSerializationError("list contacts: empty response body", nil)
	}
	if page.Contacts == nil {
		page.Contacts = []contact.Contact{}
	}
	return &page, nil
}

// Create posts a new contact. The returned contact is nil when the service
// answered with an empty body.
func (c *Client) Create(ctx context.Context, in contact.Contact) (*contact.Contact, error) {
	return c.send(ctx, "create contact", http.MethodPost, c.baseURL+"/"+contact.Resource, in)
}

// Update replaces the contact with the given identifier.
func (c *Client) Update(ctx context.Context, id contact.ID, in contact.Contact) (*contact.Contact, error) {
	return c.send(ctx, "update contact", http.MethodPut, c.contactURL(id), in)
}

// Delete removes the contact with the given identifier. The acknowledgement
// body is read and discarded.
func (c *Client) Delete(ctx context.Context, id contact.ID) error {
	_, err := c.do(ctx, "delete contact", http.MethodDelete, c.contactURL(id), nil, nil)
	return err
}

func (c *Client) send(ctx context.Context, op, method, u string, in contact.Contact) (*contact.Contact, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, errors.NewSerializationError(op+": failed to marshal request", err)
	}

	var out contact.Contact
	found, err := c.do(ctx, op, method, u, body, &out)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &out, nil
}

// do executes one request. out may be nil to discard the body. The bool
// result reports whether a non-empty body was decoded into out.
func (c *Client) do(ctx context.Context, op, method, u string, body []byte, out interface{}) (bool, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return false, errors.NewInternalError("failed to create request", err).WithOperation(op)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("request", zap.String("op", op), zap.String("method", method), zap.String("url", u))

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, errors.Wrap(ctx.Err(), op)
		}
		c.logger.Warn("request failed", zap.String("op", op), zap.Error(err))
		return false, errors.NewNetworkError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("non-success status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode))
		return false, errors.NewServiceError(serviceName, resp.StatusCode, string(excerpt))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, errors.NewNetworkError(op, err)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, errors.NewSerializationError(op+": failed to decode response", err)
	}
	return true, nil
}
