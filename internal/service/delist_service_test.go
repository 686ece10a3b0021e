package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/KickLedger/kickledger_api/internal/match"
	"github.com/KickLedger/kickledger_api/internal/models"
	"github.com/KickLedger/kickledger_api/internal/service"
	"github.com/KickLedger/kickledger_api/internal/utils"
)

type fakeSaleStore struct {
	sales     []models.Sale
	listErr   error
	processed []int
}

func (f *fakeSaleStore) ListUnprocessed(ctx context.Context, userID int) ([]models.Sale, error) {
	return f.sales, f.listErr
}

func (f *fakeSaleStore) MarkProcessed(ctx context.Context, saleID int) error {
	f.processed = append(f.processed, saleID)
	return nil
}

type soldCall struct {
	linkID int
	soldOn models.Marketplace
}

type fakeLinkWriter struct {
	sold []soldCall
}

func (f *fakeLinkWriter) MarkSold(ctx context.Context, linkID int, soldOn models.Marketplace) error {
	f.sold = append(f.sold, soldCall{linkID, soldOn})
	return nil
}

type fakeLogStore struct {
	entries []models.DelistLogEntry
	err     error
}

func (f *fakeLogStore) Append(ctx context.Context, entry *models.DelistLogEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, *entry)
	return nil
}

type fakeMatcher struct {
	result match.Result
}

func (f *fakeMatcher) FindLink(ctx context.Context, userID int, sku, size string) match.Result {
	return f.result
}

type dispatchCall struct {
	marketplace models.Marketplace
	token       string
	listingID   string
}

type fakeDispatcher struct {
	outcome service.DelistOutcome
	calls   []dispatchCall
}

func (f *fakeDispatcher) Delist(ctx context.Context, marketplace models.Marketplace, accessToken, listingID string) service.DelistOutcome {
	f.calls = append(f.calls, dispatchCall{marketplace, accessToken, listingID})
	return f.outcome
}

type fakeTokens struct {
	token string
	err   error
}

func (f *fakeTokens) GetValidToken(ctx context.Context, userID int, marketplace models.Marketplace) (string, error) {
	return f.token, f.err
}

type fakeLocker struct {
	denied   bool
	released int
}

func (f *fakeLocker) Acquire(ctx context.Context, userID int) bool { return !f.denied }
func (f *fakeLocker) Release(ctx context.Context, userID int)      { f.released++ }

type fixture struct {
	sales      *fakeSaleStore
	links      *fakeLinkWriter
	logs       *fakeLogStore
	matcher    *fakeMatcher
	dispatcher *fakeDispatcher
	tokens     *fakeTokens
	locker     *fakeLocker
	svc        *service.DelistService
}

func newFixture(sales []models.Sale, matched match.Result, outcome service.DelistOutcome) *fixture {
	f := &fixture{
		sales:      &fakeSaleStore{sales: sales},
		links:      &fakeLinkWriter{},
		logs:       &fakeLogStore{},
		matcher:    &fakeMatcher{result: matched},
		dispatcher: &fakeDispatcher{outcome: outcome},
		tokens:     &fakeTokens{token: "tok-1"},
		locker:     &fakeLocker{},
	}
	f.svc = service.NewDelistService(f.sales, f.links, f.logs, f.matcher, f.dispatcher, f.tokens, f.locker)
	return f
}

func strptr(s string) *string { return &s }

func ebaySale() models.Sale {
	return models.Sale{
		ID:       10,
		UserID:   1,
		OrderID:  "11-22222-33333",
		ItemName: "Dunk Low Panda",
		SKU:      "DH6927-111",
		Size:     "10",
		Platform: "eBay",
	}
}

func activeLink(stockxID, ebayID *string) *models.CrossListLink {
	return &models.CrossListLink{
		ID:              5,
		UserID:          1,
		SKU:             "DH-6927-111",
		Size:            "10 US",
		StockXListingID: stockxID,
		EbayOfferID:     ebayID,
		Status:          models.LinkStatusActive,
	}
}

func TestRunForUser_DelistsOppositeMarketplace(t *testing.T) {
	link := activeLink(strptr("L123"), strptr("O456"))
	f := newFixture(
		[]models.Sale{ebaySale()},
		match.Result{Found: true, Link: link},
		service.DelistOutcome{Success: true},
	)

	summary, err := f.svc.RunForUser(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Counts.Success != 1 || summary.Processed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	// The sale happened on eBay, so the StockX listing is removed.
	if len(f.dispatcher.calls) != 1 {
		t.Fatalf("dispatcher calls = %d, want 1", len(f.dispatcher.calls))
	}
	call := f.dispatcher.calls[0]
	if call.marketplace != models.MarketplaceStockX || call.listingID != "L123" || call.token != "tok-1" {
		t.Errorf("bad dispatch %+v", call)
	}

	if len(f.links.sold) != 1 || f.links.sold[0] != (soldCall{5, models.MarketplaceEbay}) {
		t.Errorf("link sold transition = %+v, want link 5 sold on ebay", f.links.sold)
	}

	if len(f.logs.entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(f.logs.entries))
	}
	entry := f.logs.entries[0]
	if entry.Status != models.DelistStatusSuccess {
		t.Errorf("log status = %s, want success", entry.Status)
	}
	if entry.SoldOn != models.MarketplaceEbay || entry.DelistedFrom == nil || *entry.DelistedFrom != models.MarketplaceStockX {
		t.Errorf("log marketplaces wrong: %+v", entry)
	}

	if len(f.sales.processed) != 1 || f.sales.processed[0] != 10 {
		t.Errorf("processed = %v, want [10]", f.sales.processed)
	}
}

func TestRunForUser_AmbiguousMatchRefused(t *testing.T) {
	f := newFixture(
		[]models.Sale{ebaySale()},
		match.Result{SkippedReason: match.SkipMultipleMatches},
		service.DelistOutcome{},
	)

	summary, err := f.svc.RunForUser(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Counts.NotFound != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(f.dispatcher.calls) != 0 {
		t.Error("ambiguous match must not dispatch a delist")
	}
	if len(f.links.sold) != 0 {
		t.Error("ambiguous match must not retire a link")
	}
	entry := f.logs.entries[0]
	if entry.Status != models.DelistStatusNotFound || entry.ErrorMessage == nil || *entry.ErrorMessage != match.SkipMultipleMatches {
		t.Errorf("log entry = %+v", entry)
	}
	if len(f.sales.processed) != 1 {
		t.Error("sale must still be marked processed")
	}
}

func TestRunForUser_UnknownPlatformSkipped(t *testing.T) {
	sale := ebaySale()
	sale.Platform = "grailed"
	f := newFixture([]models.Sale{sale}, match.Result{}, service.DelistOutcome{})

	summary, err := f.svc.RunForUser(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Counts.Skipped != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	entry := f.logs.entries[0]
	if entry.Status != models.DelistStatusSkipped || entry.ErrorMessage == nil || *entry.ErrorMessage != service.SkipUnknownPlatform {
		t.Errorf("log entry = %+v", entry)
	}
	if len(f.sales.processed) != 1 {
		t.Error("unknown platform sale must still be marked processed")
	}
}

func TestRunForUser_FailedDispatchKeepsLinkActive(t *testing.T) {
	link := activeLink(strptr("L123"), nil)
	f := newFixture(
		[]models.Sale{ebaySale()},
		match.Result{Found: true, Link: link},
		service.DelistOutcome{Err: "stockx: status 500"},
	)

	summary, err := f.svc.RunForUser(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Counts.Failed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(f.links.sold) != 0 {
		t.Error("failed dispatch must leave the link active for a future run")
	}
	if len(f.sales.processed) != 1 {
		t.Error("failed sale is still marked processed; the log is the retry signal")
	}
}

func TestRunForUser_AlreadyRemovedIsNotFoundButRetiresLink(t *testing.T) {
	link := activeLink(strptr("L123"), nil)
	f := newFixture(
		[]models.Sale{ebaySale()},
		match.Result{Found: true, Link: link},
		service.DelistOutcome{Success: true, AlreadyRemoved: true},
	)

	summary, err := f.svc.RunForUser(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Counts.NotFound != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	// The listing is gone either way, so the link is retired.
	if len(f.links.sold) != 1 {
		t.Error("already-removed outcome should still retire the link")
	}
}

func TestRunForUser_NoListingOnOtherSide(t *testing.T) {
	link := activeLink(nil, strptr("O456")) // never listed on StockX
	f := newFixture(
		[]models.Sale{ebaySale()},
		match.Result{Found: true, Link: link},
		service.DelistOutcome{},
	)

	summary, err := f.svc.RunForUser(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Counts.NotFound != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(f.dispatcher.calls) != 0 {
		t.Error("nothing to delist, dispatcher must not be called")
	}
}

func TestRunForUser_CredentialFailureIsFailedOutcome(t *testing.T) {
	link := activeLink(strptr("L123"), nil)
	f := newFixture(
		[]models.Sale{ebaySale()},
		match.Result{Found: true, Link: link},
		service.DelistOutcome{},
	)
	f.tokens.err = errors.New("no credential")

	summary, err := f.svc.RunForUser(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Counts.Failed != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(f.dispatcher.calls) != 0 {
		t.Error("dispatcher must not run without a token")
	}
}

func TestRunForUser_LockHeld(t *testing.T) {
	f := newFixture(nil, match.Result{}, service.DelistOutcome{})
	f.locker.denied = true

	if _, err := f.svc.RunForUser(context.Background(), 1); !errors.Is(err, utils.ErrRunInProgress) {
		t.Fatalf("err = %v, want ErrRunInProgress", err)
	}
}

func TestRunForUser_ReleasesLock(t *testing.T) {
	f := newFixture(nil, match.Result{}, service.DelistOutcome{})
	if _, err := f.svc.RunForUser(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if f.locker.released != 1 {
		t.Errorf("lock released %d times, want 1", f.locker.released)
	}
}
