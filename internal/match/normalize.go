// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"strings"
	"unicode"
)

// Normalize lower-cases s and keeps only letters, digits and whitespace.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AffiliationMatch reports whether the normalized target occurs inside any
// normalized affiliation. An empty target never matches.
func AffiliationMatch(affiliations []string, target string) bool {
	t := Normalize(target)
	if strings.TrimSpace(t) == "" {
		return false
	}
	for _, a := range affiliations {
		if strings.Contains(Normalize(a), t) {
			return true
		}
	}
	return false
}

// AnchorMatch reports whether any paper title equals an anchor title after
// trimming and lower-casing both. There is no partial matching.
func AnchorMatch(titles, anchors []string) bool {
	want := make(map[string]bool, len(anchors))
	for _, a := range anchors {
		if k := anchorKey(a); k != "" {
			want[k] = true
		}
	}
	if len(want) == 0 {
		return false
	}
	for _, t := range titles {
		if want[anchorKey(t)] {
			return true
		}
	}
	return false
}

func anchorKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
