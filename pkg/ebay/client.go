// Package ebay is a minimal HTTP client for the eBay sell APIs: OAuth token
// refresh, fulfillment orders, and inventory offer withdrawal.
package ebay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Config holds eBay API settings.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// Client is a minimal HTTP client for the eBay sell APIs.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        Config
}

// NewClient constructs a new eBay client with sane defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.ebay.com"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 10),
		cfg:        cfg,
	}
}

// RefreshToken exchanges a refresh token for a fresh user access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/identity/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.cfg.ClientID + ":" + c.cfg.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token TokenResponse
	if err := c.do(req, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// GetOrders returns orders created at or after the given time.
func (c *Client) GetOrders(ctx context.Context, accessToken string, since time.Time) ([]Order, error) {
	filter := url.QueryEscape(fmt.Sprintf("creationdate:[%s..]", since.UTC().Format(time.RFC3339)))

	var all []Order
	for offset := 0; ; {
		req, err := c.newAPIRequest(ctx, http.MethodGet,
			fmt.Sprintf("/sell/fulfillment/v1/order?filter=%s&limit=100&offset=%d", filter, offset),
			accessToken)
		if err != nil {
			return nil, err
		}

		var resp ordersResponse
		if err := c.do(req, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Orders...)
		offset += len(resp.Orders)
		if offset >= resp.Total || len(resp.Orders) == 0 {
			return all, nil
		}
	}
}

// WithdrawOffer ends the live listing behind a published offer. Non-2xx
// responses surface as *APIError carrying eBay's errorId, so callers can
// tell "offer already gone" from a real failure.
func (c *Client) WithdrawOffer(ctx context.Context, accessToken, offerID string) (*WithdrawResponse, error) {
	req, err := c.newAPIRequest(ctx, http.MethodPost,
		"/sell/inventory/v1/offer/"+url.PathEscape(offerID)+"/withdraw", accessToken)
	if err != nil {
		return nil, err
	}

	var resp WithdrawResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// newAPIRequest builds an authenticated request against the API base URL.
func (c *Client) newAPIRequest(ctx context.Context, method, path, accessToken string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
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
		var body apiErrorBody
		if json.Unmarshal(raw, &body) == nil && len(body.Errors) > 0 {
			apiErr.ErrorID = body.Errors[0].ErrorID
			apiErr.Message = body.Errors[0].Message
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
		return fmt.Errorf("ebay: decode response: %w", err)
	}
	return nil
}
