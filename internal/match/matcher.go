package match

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/KickLedger/kickledger_api/internal/models"
)

// SkipMultipleMatches marks a lookup that found more than one candidate link.
// An ambiguous match must never cause a delist of the wrong listing, so the
// matcher refuses to pick one. This is the single most important correctness
// property of the delist pipeline.
const SkipMultipleMatches = "multiple_matches"

// LinkStore is the slice of link storage the matcher needs.
type LinkStore interface {
	ListActive(ctx context.Context, userID int) ([]models.CrossListLink, error)
}

// Result is the outcome of a cross-listing lookup.
type Result struct {
	Found         bool
	Link          *models.CrossListLink
	SkippedReason string
}

// LinkMatcher locates the unique active cross-listing link for a sold item.
type LinkMatcher struct {
	links LinkStore
}

// NewLinkMatcher creates a new LinkMatcher.
func NewLinkMatcher(links LinkStore) *LinkMatcher {
	return &LinkMatcher{links: links}
}

// FindLink matches a sold item against the user's active links by
// exact-after-normalization SKU and size. No fuzzy scoring: zero matches
// means nothing to delist, two or more means refuse.
//
// A storage failure degrades to "no match" rather than an error, because
// delisting is best-effort and must not take down the rest of the run.
func (m *LinkMatcher) FindLink(ctx context.Context, userID int, sku, size string) Result {
	links, err := m.links.ListActive(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Int("user_id", userID).Msg("Link lookup failed, treating as no match")
		return Result{}
	}

	wantSKU := NormalizeSKU(sku)
	wantSize := NormalizeSize(size)

	var matches []*models.CrossListLink
	for i := range links {
		if NormalizeSKU(links[i].SKU) == wantSKU && NormalizeSize(links[i].Size) == wantSize {
			matches = append(matches, &links[i])
		}
	}

	switch len(matches) {
	case 0:
		return Result{}
	case 1:
		return Result{Found: true, Link: matches[0]}
	default:
		log.Warn().
			Int("user_id", userID).
			Str("sku", wantSKU).
			Str("size", wantSize).
			Int("candidates", len(matches)).
			Msg("Ambiguous cross-listing match, refusing to pick")
		return Result{SkippedReason: SkipMultipleMatches}
	}
}
