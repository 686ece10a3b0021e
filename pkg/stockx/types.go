package stockx

import "fmt"

// TokenResponse is the OAuth token endpoint response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Listing is a selling listing as returned by the listings API.
type Listing struct {
	ListingID string `json:"listingId"`
	Status    string `json:"status"`
	Amount    string `json:"amount"`
	Product   struct {
		ProductID   string `json:"productId"`
		ProductName string `json:"productName"`
		StyleID     string `json:"styleId"`
	} `json:"product"`
	Variant struct {
		VariantID    string `json:"variantId"`
		VariantValue string `json:"variantValue"` // size
	} `json:"variant"`
}

// Listing statuses we care about.
const (
	ListingStatusActive   = "ACTIVE"
	ListingStatusInactive = "INACTIVE"
	ListingStatusDeleted  = "DELETED"
	ListingStatusSold     = "COMPLETED"
)

// Order is one completed sale from the orders API.
type Order struct {
	OrderNumber string `json:"orderNumber"`
	ListingID   string `json:"listingId"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
	Product     struct {
		ProductName string `json:"productName"`
		StyleID     string `json:"styleId"`
	} `json:"product"`
	Variant struct {
		VariantValue string `json:"variantValue"`
	} `json:"variant"`
	Payout struct {
		TotalPayout      float64 `json:"totalPayout"`
		SalePrice        float64 `json:"salePrice"`
		TotalAdjustments float64 `json:"totalAdjustments"`
		CurrencyCode     string  `json:"currencyCode"`
	} `json:"payout"`
}

// ordersResponse wraps the paginated orders payload.
type ordersResponse struct {
	Count       int     `json:"count"`
	PageNumber  int     `json:"pageNumber"`
	HasNextPage bool    `json:"hasNextPage"`
	Orders      []Order `json:"orders"`
}

// DeleteListingResponse is returned by the listing delete operation.
type DeleteListingResponse struct {
	ListingID string `json:"listingId"`
	Status    string `json:"status"`
}

// errorResponse is the API error payload shape.
type errorResponse struct {
	ErrorMessage string `json:"errorMessage"`
	Message      string `json:"message"`
}

// APIError is a non-2xx response from the StockX API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stockx: HTTP %d: %s", e.StatusCode, e.Message)
}
