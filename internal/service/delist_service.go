package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/KickLedger/kickledger_api/internal/match"
	"github.com/KickLedger/kickledger_api/internal/models"
	"github.com/KickLedger/kickledger_api/internal/utils"
)

// SkipUnknownPlatform marks a sale whose platform string resolved to neither
// marketplace. Retrying cannot fix that, so the sale is still marked
// processed.
const SkipUnknownPlatform = "unknown_platform"

// SaleStore is the slice of sale storage the orchestrator needs.
type SaleStore interface {
	ListUnprocessed(ctx context.Context, userID int) ([]models.Sale, error)
	MarkProcessed(ctx context.Context, saleID int) error
}

// LinkWriter marks a matched link sold after a confirmed delist. The
// orchestrator is the only writer of this transition.
type LinkWriter interface {
	MarkSold(ctx context.Context, linkID int, soldOn models.Marketplace) error
}

// LogStore appends delist audit entries.
type LogStore interface {
	Append(ctx context.Context, entry *models.DelistLogEntry) error
}

// Matcher locates the unique cross-listing link for a sold item.
type Matcher interface {
	FindLink(ctx context.Context, userID int, sku, size string) match.Result
}

// Dispatcher removes a listing on a marketplace.
type Dispatcher interface {
	Delist(ctx context.Context, marketplace models.Marketplace, accessToken, listingID string) DelistOutcome
}

// TokenProvider returns a live access token for a user on a marketplace.
type TokenProvider interface {
	GetValidToken(ctx context.Context, userID int, marketplace models.Marketplace) (string, error)
}

// Locker gates a user's delist run.
type Locker interface {
	Acquire(ctx context.Context, userID int) bool
	Release(ctx context.Context, userID int)
}

// SaleResult is the per-sale outcome returned to the caller, used for
// run-level reporting only; the audit log is the durable record.
type SaleResult struct {
	SaleID       int                 `json:"saleId"`
	OrderID      string              `json:"orderId"`
	Status       models.DelistStatus `json:"status"`
	SoldOn       models.Marketplace  `json:"soldOn,omitempty"`
	DelistedFrom models.Marketplace  `json:"delistedFrom,omitempty"`
	ListingID    string              `json:"listingId,omitempty"`
	Err          string              `json:"error,omitempty"`
}

// RunSummary aggregates one user's delist run.
type RunSummary struct {
	UserID    int                       `json:"userId"`
	Processed int                       `json:"processed"`
	Counts    models.DelistStatusCounts `json:"counts"`
	Results   []SaleResult              `json:"results"`
}

// DelistService runs the cross-platform delist pipeline: when an item sells
// on one marketplace, find its cross-listing and remove the duplicate on the
// other marketplace.
//
// Per sale the pipeline is: resolve marketplace -> match link -> dispatch
// delist -> mark link sold (dispatch success only) -> append audit entry ->
// mark sale processed. The sale is marked processed on every terminal
// outcome; the audit log is the retry signal for an operator. Storage
// failures around the primary effect are logged and swallowed so one broken
// side effect cannot wedge a sale, and nothing escapes the per-sale boundary.
type DelistService struct {
	sales      SaleStore
	links      LinkWriter
	logs       LogStore
	matcher    Matcher
	dispatcher Dispatcher
	tokens     TokenProvider
	locker     Locker
}

// NewDelistService creates a new DelistService.
func NewDelistService(
	sales SaleStore,
	links LinkWriter,
	logs LogStore,
	matcher Matcher,
	dispatcher Dispatcher,
	tokens TokenProvider,
	locker Locker,
) *DelistService {
	return &DelistService{
		sales:      sales,
		links:      links,
		logs:       logs,
		matcher:    matcher,
		dispatcher: dispatcher,
		tokens:     tokens,
		locker:     locker,
	}
}

// RunForUser processes all of a user's unprocessed sales, oldest first,
// under the per-user run lock. Returns utils.ErrRunInProgress if another run
// holds the lock.
func (s *DelistService) RunForUser(ctx context.Context, userID int) (*RunSummary, error) {
	if !s.locker.Acquire(ctx, userID) {
		return nil, utils.ErrRunInProgress
	}
	defer s.locker.Release(ctx, userID)

	sales, err := s.sales.ListUnprocessed(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{UserID: userID}
	for i := range sales {
		res := s.processSale(ctx, &sales[i])
		summary.Processed++
		switch res.Status {
		case models.DelistStatusSuccess:
			summary.Counts.Success++
		case models.DelistStatusFailed:
			summary.Counts.Failed++
		case models.DelistStatusSkipped:
			summary.Counts.Skipped++
		case models.DelistStatusNotFound:
			summary.Counts.NotFound++
		}
		summary.Results = append(summary.Results, res)
	}

	if summary.Processed > 0 {
		log.Info().
			Int("user_id", userID).
			Int("sales", summary.Processed).
			Int("success", summary.Counts.Success).
			Int("failed", summary.Counts.Failed).
			Int("skipped", summary.Counts.Skipped).
			Int("not_found", summary.Counts.NotFound).
			Msg("Delist run finished")
	}
	return summary, nil
}

// processSale runs the per-sale state machine. It never returns an error and
// never panics out: one bad sale must not abort the rest of the run.
func (s *DelistService) processSale(ctx context.Context, sale *models.Sale) (res SaleResult) {
	res = SaleResult{SaleID: sale.ID, OrderID: sale.OrderID}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Int("sale_id", sale.ID).Interface("panic", r).Msg("Delist pipeline panic contained")
			res.Status = models.DelistStatusFailed
			res.Err = "internal error"
		}
	}()

	// Resolve the selling marketplace once, at the boundary. Synced sales
	// carry the enum already; legacy rows fall back to the free-text
	// platform string.
	soldOn := sale.Marketplace
	if !soldOn.Valid() {
		var ok bool
		soldOn, ok = models.ParseMarketplace(sale.Platform)
		if !ok {
			res.Status = models.DelistStatusSkipped
			res.Err = SkipUnknownPlatform
			s.appendLog(ctx, sale, res, nil, nil)
			s.markProcessed(ctx, sale)
			return res
		}
	}
	res.SoldOn = soldOn
	delistFrom := soldOn.Other()
	res.DelistedFrom = delistFrom

	matched := s.matcher.FindLink(ctx, sale.UserID, sale.SKU, sale.Size)

	var linkID *int
	var listingID *string
	switch {
	case !matched.Found:
		// Absent or ambiguous; both degrade to "nothing to delist" so a
		// wrong-item delist can never happen.
		res.Status = models.DelistStatusNotFound
		if matched.SkippedReason != "" {
			res.Err = matched.SkippedReason
		}
	case matched.Link.ListingIDFor(delistFrom) == nil:
		// Matched, but the item was never actually listed on the other side.
		linkID = &matched.Link.ID
		res.Status = models.DelistStatusNotFound
	default:
		linkID = &matched.Link.ID
		listingID = matched.Link.ListingIDFor(delistFrom)
		res.ListingID = *listingID

		outcome := s.dispatch(ctx, sale.UserID, delistFrom, *listingID)

		if outcome.Success {
			// Only a confirmed dispatch retires the link; on anything short
			// of success it stays active and matchable for a future run.
			if err := s.links.MarkSold(ctx, matched.Link.ID, soldOn); err != nil {
				log.Error().Err(err).Int("link_id", matched.Link.ID).Msg("Link sold transition failed")
			}
		}

		switch {
		case outcome.Success && !outcome.AlreadyRemoved && !outcome.NotFound:
			res.Status = models.DelistStatusSuccess
		case outcome.AlreadyRemoved || outcome.NotFound:
			res.Status = models.DelistStatusNotFound
		default:
			res.Status = models.DelistStatusFailed
			res.Err = outcome.Err
		}
	}

	s.appendLog(ctx, sale, res, linkID, listingID)
	s.markProcessed(ctx, sale)
	return res
}

// dispatch fetches a credential and invokes the marketplace delister. A
// credential failure is a failed outcome, not an exception.
func (s *DelistService) dispatch(ctx context.Context, userID int, delistFrom models.Marketplace, listingID string) DelistOutcome {
	token, err := s.tokens.GetValidToken(ctx, userID, delistFrom)
	if err != nil {
		log.Warn().Err(err).Int("user_id", userID).Str("marketplace", delistFrom.String()).Msg("No usable credential for delist")
		return DelistOutcome{Err: "credential: " + err.Error()}
	}
	return s.dispatcher.Delist(ctx, delistFrom, token, listingID)
}

// appendLog writes the audit entry; failures are logged and swallowed so a
// broken audit trail never blocks the pipeline's primary effect.
func (s *DelistService) appendLog(ctx context.Context, sale *models.Sale, res SaleResult, linkID *int, listingID *string) {
	entry := &models.DelistLogEntry{
		UserID:    sale.UserID,
		SoldOn:    res.SoldOn,
		ItemName:  sale.ItemName,
		SKU:       sale.SKU,
		Size:      sale.Size,
		OrderID:   sale.OrderID,
		LinkID:    linkID,
		ListingID: listingID,
		Status:    res.Status,
	}
	if res.DelistedFrom.Valid() {
		df := res.DelistedFrom
		entry.DelistedFrom = &df
	}
	if res.Err != "" {
		msg := res.Err
		entry.ErrorMessage = &msg
	}
	if err := s.logs.Append(ctx, entry); err != nil {
		log.Error().Err(err).Int("sale_id", sale.ID).Msg("Delist log append failed")
	}
}

// markProcessed flips the sale's processed flag; failures are logged and
// swallowed. A sale whose flag write failed will be retried next run, which
// is safe because dispatch is idempotent.
func (s *DelistService) markProcessed(ctx context.Context, sale *models.Sale) {
	if err := s.sales.MarkProcessed(ctx, sale.ID); err != nil {
		log.Error().Err(err).Int("sale_id", sale.ID).Msg("Mark processed failed")
	}
}
