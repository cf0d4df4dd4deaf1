package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// CanonicalizeLink cuts a listing link right before its second '=' so that
// tracking parameters after the first key/value pair never change a posting's
// identity. Links with fewer than two '=' are returned unchanged.
func CanonicalizeLink(raw string) string {
	first := strings.IndexByte(raw, '=')
	if first < 0 {
		return raw
	}
	second := strings.IndexByte(raw[first+1:], '=')
	if second < 0 {
		return raw
	}
	return raw[:first+1+second]
}

// HashID is the hex SHA-256 of a canonical link.
func HashID(canonicalLink string) string {
	sum := sha256.Sum256([]byte(canonicalLink))
	return hex.EncodeToString(sum[:])
}
