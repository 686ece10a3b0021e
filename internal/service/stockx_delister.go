package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/KickLedger/kickledger_api/internal/models"
	"github.com/KickLedger/kickledger_api/pkg/stockx"
)

// StockXDelister adapts the StockX client to the shared delist outcome shape.
type StockXDelister struct {
	client *stockx.Client
}

// NewStockXDelister creates a new StockXDelister.
func NewStockXDelister(client *stockx.Client) *StockXDelister {
	return &StockXDelister{client: client}
}

func (d *StockXDelister) Marketplace() models.Marketplace {
	return models.MarketplaceStockX
}

// Delist deletes the selling listing. A 404, or a listing already inactive or
// deleted, counts as success: the goal state (no live listing) holds.
func (d *StockXDelister) Delist(ctx context.Context, accessToken, listingID string) DelistOutcome {
	resp, err := d.client.DeleteListing(ctx, accessToken, listingID)
	if err == nil {
		log.Info().Str("listing_id", listingID).Str("status", resp.Status).Msg("StockX listing deleted")
		return DelistOutcome{Success: true}
	}

	var apiErr *stockx.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusNotFound:
			return DelistOutcome{Success: true, AlreadyRemoved: true}
		case apiErr.StatusCode == http.StatusBadRequest &&
			(strings.Contains(strings.ToLower(apiErr.Message), "inactive") ||
				strings.Contains(strings.ToLower(apiErr.Message), "deleted")):
			// Listing is in a state with nothing live to remove.
			return DelistOutcome{Success: true, NotFound: true}
		default:
			return DelistOutcome{Err: apiErr.Error()}
		}
	}

	// Transport-level failure (timeout, DNS, ...). Never propagated.
	log.Warn().Err(err).Str("listing_id", listingID).Msg("StockX delist transport error")
	return DelistOutcome{Err: err.Error()}
}
