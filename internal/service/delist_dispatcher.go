package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/KickLedger/kickledger_api/internal/models"
)

// DelistOutcome is the shared result shape every marketplace delister
// normalizes into. The rules, which hold for every marketplace:
//
//   - listing already absent/removed remotely -> Success + AlreadyRemoved
//     (delisting twice, or after a manual removal, is not an error)
//   - listing in a state that cannot be withdrawn (never published) ->
//     Success + NotFound (a no-op, not a failure)
//   - any other remote error -> !Success with a diagnostic
//
// Transport errors are caught inside the delister; they never propagate.
type DelistOutcome struct {
	Success        bool
	AlreadyRemoved bool
	NotFound       bool
	Err            string
}

// Delister removes a listing from one marketplace.
type Delister interface {
	// Marketplace returns which marketplace this delister talks to.
	Marketplace() models.Marketplace

	// Delist removes the listing, normalizing the remote result per the
	// DelistOutcome rules. It must never return a transport error as a
	// panic or propagated failure.
	Delist(ctx context.Context, accessToken, listingID string) DelistOutcome
}

// DelistDispatcher routes delist calls to the registered marketplace
// delister.
type DelistDispatcher struct {
	delisters map[models.Marketplace]Delister
}

// NewDelistDispatcher creates an empty dispatcher.
func NewDelistDispatcher() *DelistDispatcher {
	return &DelistDispatcher{
		delisters: make(map[models.Marketplace]Delister),
	}
}

// Register adds a marketplace delister to the dispatcher.
func (d *DelistDispatcher) Register(del Delister) {
	d.delisters[del.Marketplace()] = del
}

// Delist removes the listing on the given marketplace. An unregistered
// marketplace is a failure outcome, not a panic.
func (d *DelistDispatcher) Delist(ctx context.Context, marketplace models.Marketplace, accessToken, listingID string) DelistOutcome {
	del, ok := d.delisters[marketplace]
	if !ok {
		log.Error().Str("marketplace", marketplace.String()).Msg("No delister registered")
		return DelistOutcome{Err: "no delister registered for " + marketplace.String()}
	}
	return del.Delist(ctx, accessToken, listingID)
}
