// Package match implements SKU/size normalization and cross-listing lookup.
//
// Marketplaces and humans write the same style code and shoe size a dozen
// ways ("DH-6927-111" vs "DH6927 111", "W 10" vs "10 US"). Normalization here
// is a deliberately lossy matching heuristic, not a canonical representation:
// it only has to make real-world variants of the same item compare equal.
package match

import (
	"regexp"
	"strings"
)

var (
	skuJunk = regexp.MustCompile(`[^A-Z0-9]`)

	// Leading single gender prefix: "W 10", "M10.5".
	sizeGenderPrefix = regexp.MustCompile(`^[WM]\s*`)
	// Trailing alternate-gender suffix: "10 / W 11.5".
	sizeAltGender = regexp.MustCompile(`/\s*[WM]\s*[0-9.]+$`)
	// Trailing unit token: "10US", "10 UK".
	sizeUnit = regexp.MustCompile(`\s*(US|UK|EU|CM)$`)

	sizeJunk = regexp.MustCompile(`[^A-Z0-9.]`)
)

// NormalizeSKU uppercases a style code and strips everything outside [A-Z0-9],
// so dashes, spaces, and case differences compare equal.
func NormalizeSKU(sku string) string {
	return skuJunk.ReplaceAllString(strings.ToUpper(sku), "")
}

// NormalizeSize reduces a size string to its bare numeric/alpha core:
// gender prefix, alternate-gender suffix, and unit suffix are stripped in
// that order, then every character outside [A-Z0-9.].
func NormalizeSize(size string) string {
	s := strings.TrimSpace(strings.ToUpper(size))
	if s == "" {
		return ""
	}
	s = sizeGenderPrefix.ReplaceAllString(s, "")
	s = strings.TrimSpace(sizeAltGender.ReplaceAllString(s, ""))
	s = sizeUnit.ReplaceAllString(s, "")
	return sizeJunk.ReplaceAllString(s, "")
}
