package match

import "testing"

func TestNormalizeSKU(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"DH-6927-111", "DH6927111"},
		{"DH6927 111", "DH6927111"},
		{"dh6927-111", "DH6927111"},
		{"  DH6927-111  ", "DH6927111"},
		{"CW2288_111", "CW2288111"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeSKU(tc.in); got != tc.want {
			t.Errorf("NormalizeSKU(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeSize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10", "10"},
		{"10.5", "10.5"},
		{"W 10", "10"},
		{"w10", "10"},
		{"M 9.5", "9.5"},
		{"10 US", "10"},
		{"10US", "10"},
		{"9.5 UK", "9.5"},
		{"10 / W 11.5", "10"},
		{"W 8.5 / M 7", "8.5"},
		{"  10.5  ", "10.5"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeSize(tc.in); got != tc.want {
			t.Errorf("NormalizeSize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// Variants of the same listing written by different marketplaces must
// compare equal after normalization.
func TestNormalizeAgreement(t *testing.T) {
	if NormalizeSKU("DH-6927-111") != NormalizeSKU("dh6927 111") {
		t.Error("SKU variants should normalize identically")
	}
	if NormalizeSize("W 10") != NormalizeSize("10 US") {
		t.Error("size variants should normalize identically")
	}
}
