package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/KickLedger/kickledger_api/internal/models"
	"github.com/KickLedger/kickledger_api/pkg/ebay"
)

// EbayDelister adapts the eBay client to the shared delist outcome shape.
type EbayDelister struct {
	client *ebay.Client
}

// NewEbayDelister creates a new EbayDelister.
func NewEbayDelister(client *ebay.Client) *EbayDelister {
	return &EbayDelister{client: client}
}

func (d *EbayDelister) Marketplace() models.Marketplace {
	return models.MarketplaceEbay
}

// Delist withdraws the published offer. A missing offer counts as already
// removed; an offer that was never published has no live listing to end and
// counts as a no-op success.
func (d *EbayDelister) Delist(ctx context.Context, accessToken, offerID string) DelistOutcome {
	resp, err := d.client.WithdrawOffer(ctx, accessToken, offerID)
	if err == nil {
		log.Info().Str("offer_id", offerID).Str("listing_id", resp.ListingID).Msg("eBay offer withdrawn")
		return DelistOutcome{Success: true}
	}

	var apiErr *ebay.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.ErrorID == ebay.ErrIDOfferNotFound || apiErr.StatusCode == http.StatusNotFound:
			return DelistOutcome{Success: true, AlreadyRemoved: true}
		case apiErr.ErrorID == ebay.ErrIDOfferNotPublished:
			// Unpublished offer: structurally nothing to withdraw.
			return DelistOutcome{Success: true, NotFound: true}
		default:
			return DelistOutcome{Err: apiErr.Error()}
		}
	}

	// Transport-level failure (timeout, DNS, ...). Never propagated.
	log.Warn().Err(err).Str("offer_id", offerID).Msg("eBay delist transport error")
	return DelistOutcome{Err: err.Error()}
}
