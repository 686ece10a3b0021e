package models

import "strings"

// Marketplace identifies one of the two supported resale platforms.
type Marketplace string

const (
	MarketplaceStockX Marketplace = "stockx"
	MarketplaceEbay   Marketplace = "ebay"
)

// legacyPlatformNames maps free-text platform strings seen in older sale rows
// (CSV imports, early sync versions) to marketplace codes. Matching is
// case-insensitive substring, resolved once when a sale enters the pipeline.
var legacyPlatformNames = map[string]Marketplace{
	"stockx":  MarketplaceStockX,
	"stock x": MarketplaceStockX,
	"ebay":    MarketplaceEbay,
	"e-bay":   MarketplaceEbay,
}

// ParseMarketplace resolves a platform string to a Marketplace code.
// Returns false if the string matches neither platform.
func ParseMarketplace(platform string) (Marketplace, bool) {
	p := strings.ToLower(strings.TrimSpace(platform))
	if p == "" {
		return "", false
	}
	switch Marketplace(p) {
	case MarketplaceStockX, MarketplaceEbay:
		return Marketplace(p), true
	}
	for name, mk := range legacyPlatformNames {
		if strings.Contains(p, name) {
			return mk, true
		}
	}
	return "", false
}

// Other returns the opposite marketplace. Exactly two are supported, so this
// is a fixed mapping, not a lookup.
func (m Marketplace) Other() Marketplace {
	if m == MarketplaceStockX {
		return MarketplaceEbay
	}
	return MarketplaceStockX
}

// Valid reports whether m is one of the two known marketplaces.
func (m Marketplace) Valid() bool {
	return m == MarketplaceStockX || m == MarketplaceEbay
}

func (m Marketplace) String() string {
	return string(m)
}
