// Package etag derives weak entity tags from canonicalized JSON and matches
// them against conditional request headers.
package etag

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Compute serializes payload to its canonical JSON form and returns a weak
// entity tag W/"<sha256-hex>". Canonical form means lexicographically sorted
// object keys and no incidental whitespace, so the same logical body always
// produces the same tag regardless of field insertion order. Callers are
// responsible for fixed timestamp and decimal formatting in the payload.
func Compute(payload any) (string, error) {
	canonical, err := Canonicalize(payload)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256(canonical)
	return fmt.Sprintf("W/%q", hex.EncodeToString(digest[:])), nil
}

// Canonicalize returns the canonical JSON encoding of payload. The value is
// marshaled once, decoded into untyped maps, and marshaled again: encoding/json
// emits map keys in sorted order, which normalizes away struct field order.
func Canonicalize(payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("canonicalize payload: %w", err)
	}
	return canonical, nil
}

// Match reports whether the If-None-Match header value contains tag. The
// header may carry one or more comma-separated candidates; comparison is
// exact string equality. A bare "*" matches any current tag.
func Match(header, tag string) bool {
	if header == "" {
		return false
	}
	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == tag {
			return true
		}
	}
	return false
}
