// Package stockx is a minimal HTTP client for the StockX selling API:
// token refresh, completed orders, and listing deletion. Response
// interpretation (what counts as "already gone") lives with the caller.
package stockx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Config holds StockX API settings.
type Config struct {
	BaseURL      string
	APIKey       string
	ClientID     string
	ClientSecret string
}

// Client is a minimal HTTP client for the StockX API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        Config
}

// NewClient constructs a new StockX client with sane defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.stockx.com/v2"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		// StockX enforces strict per-key quotas; stay well under them.
		limiter: rate.NewLimiter(rate.Limit(2), 4),
		cfg:     cfg,
	}
}

// RefreshToken exchanges a refresh token for a fresh access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://accounts.stockx.com/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token TokenResponse
	if err := c.do(req, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// GetOrders returns completed orders created at or after the given time.
func (c *Client) GetOrders(ctx context.Context, accessToken string, since time.Time) ([]Order, error) {
	var all []Order
	for page := 1; ; page++ {
		req, err := c.newAPIRequest(ctx, http.MethodGet,
			fmt.Sprintf("/selling/orders/history?pageNumber=%d&pageSize=100&fromDate=%s",
				page, since.UTC().Format("2006-01-02")), accessToken, nil)
		if err != nil {
			return nil, err
		}

		var resp ordersResponse
		if err := c.do(req, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Orders...)
		if !resp.HasNextPage {
			return all, nil
		}
	}
}

// DeleteListing removes a selling listing. Non-2xx responses surface as
// *APIError so callers can distinguish "already gone" from a real failure.
func (c *Client) DeleteListing(ctx context.Context, accessToken, listingID string) (*DeleteListingResponse, error) {
	req, err := c.newAPIRequest(ctx, http.MethodDelete,
		"/selling/listings/"+url.PathEscape(listingID), accessToken, nil)
	if err != nil {
		return nil, err
	}

	var resp DeleteListingResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetListing fetches one selling listing by id.
func (c *Client) GetListing(ctx context.Context, accessToken, listingID string) (*Listing, error) {
	req, err := c.newAPIRequest(ctx, http.MethodGet,
		"/selling/listings/"+url.PathEscape(listingID), accessToken, nil)
	if err != nil {
		return nil, err
	}

	var listing Listing
	if err := c.do(req, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// newAPIRequest builds an authenticated request against the API base URL.
func (c *Client) newAPIRequest(ctx context.Context, method, path, accessToken string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do executes the request under the rate limiter and decodes the JSON body
// into out. Non-2xx responses are returned as *APIError.
func (c *Client) do(req *http.Request, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body errorResponse
		if json.Unmarshal(raw, &body) == nil {
			if body.ErrorMessage != "" {
				apiErr.Message = body.ErrorMessage
			} else {
				apiErr.Message = body.Message
			}
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("stockx: decode response: %w", err)
	}
	return nil
}
