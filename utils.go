package interdependence

import "time"

// Ledger transaction and wallet ids are base64url, 43 characters.
func isB64URLChar(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '-' || c == '_'
}

// IsTxID reports whether s has the shape of a ledger transaction id.
func IsTxID(s string) bool {
	if len(s) != 43 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isB64URLChar(s[i]) {
			return false
		}
	}
	return true
}

// FormatTimestamp renders a block's unix timestamp as the human-readable
// confirmation date shown alongside a declaration, e.g. "November 14, 2023".
func FormatTimestamp(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("January 2, 2006")
}
