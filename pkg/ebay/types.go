package ebay

import "fmt"

// TokenResponse is the OAuth token endpoint response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// WithdrawResponse is returned by the offer withdraw operation.
type WithdrawResponse struct {
	ListingID string `json:"listingId"`
}

// Order is one order from the fulfillment API.
type Order struct {
	OrderID                string     `json:"orderId"`
	CreationDate           string     `json:"creationDate"`
	OrderFulfillmentStatus string     `json:"orderFulfillmentStatus"`
	LineItems              []LineItem `json:"lineItems"`
	PaymentSummary         struct {
		TotalDueSeller struct {
			Value    string `json:"value"`
			Currency string `json:"currency"`
		} `json:"totalDueSeller"`
	} `json:"paymentSummary"`
}

// LineItem is one purchased item within an order.
type LineItem struct {
	LineItemID string `json:"lineItemId"`
	SKU        string `json:"sku"`
	Title      string `json:"title"`
	Total      struct {
		Value string `json:"value"`
	} `json:"total"`
}

// ordersResponse wraps the paginated fulfillment orders payload.
type ordersResponse struct {
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Orders []Order `json:"orders"`
}

// apiErrorBody is the standard eBay error envelope.
type apiErrorBody struct {
	Errors []struct {
		ErrorID     int    `json:"errorId"`
		Message     string `json:"message"`
		LongMessage string `json:"longMessage"`
	} `json:"errors"`
}

// Error ids the delist path cares about.
const (
	// ErrIDOfferNotFound: the offer id does not exist (or is not visible to
	// this seller).
	ErrIDOfferNotFound = 25713
	// ErrIDOfferNotPublished: the offer exists but was never published, so
	// there is no live listing to end.
	ErrIDOfferNotPublished = 25714
)

// APIError is a non-2xx response from the eBay API.
type APIError struct {
	StatusCode int
	ErrorID    int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ebay: HTTP %d (errorId %d): %s", e.StatusCode, e.ErrorID, e.Message)
}
