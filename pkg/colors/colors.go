// Package colors maps vendor color abbreviations ("BLK", "IVR") to full
// color names using a persisted mapping cache extended by a remote
// suggestion service.
//
// The mapping is never required for correctness. A color with no mapping is
// left as-is, and a failure of the suggestion service produces zero new
// mappings rather than an error. Only suggestions at or above the
// confidence floor are persisted, and an existing mapping is never
// overwritten.
package colors

import (
	"strings"
	"unicode"
)

// MinConfidence is the floor below which a remote suggestion is discarded.
const MinConfidence = 0.7

// suspectMaxLen bounds what still counts as a "short" abbreviation.
const suspectMaxLen = 4

// knownColorWords are full color names that are never treated as
// abbreviation codes, regardless of casing.
var knownColorWords = map[string]bool{
	"black": true, "white": true, "red": true, "blue": true, "navy": true,
	"green": true, "ivory": true, "cream": true, "gold": true, "silver": true,
	"grey": true, "gray": true, "pink": true, "purple": true, "plum": true,
	"wine": true, "teal": true, "coral": true, "blush": true, "champagne": true,
	"burgundy": true, "mauve": true, "taupe": true, "sage": true, "lilac": true,
	"rose": true, "nude": true, "tan": true, "brown": true, "orange": true,
	"yellow": true, "mint": true, "aqua": true, "royal": true, "fuchsia": true,
	"charcoal": true, "emerald": true, "lavender": true, "peach": true,
}

// Mapping is a badColor to goodColor substitution table.
type Mapping map[string]string

// Lookup returns the mapped color for a raw color value, case-insensitively.
func (m Mapping) Lookup(color string) (string, bool) {
	good, ok := m[strings.ToLower(strings.TrimSpace(color))]
	return good, ok
}

// Add records a new mapping unless the bad color is already mapped.
// Returns whether the mapping was added.
func (m Mapping) Add(bad, good string) bool {
	key := strings.ToLower(strings.TrimSpace(bad))
	if key == "" || good == "" {
		return false
	}
	if _, exists := m[key]; exists {
		return false
	}
	m[key] = good
	return true
}

// IsSuspectCode reports whether a color value looks like a vendor
// abbreviation worth sending to the suggestion service: short, vowel-poor,
// or all-caps tokens that are neither known color words nor already mapped.
func IsSuspectCode(color string, mapping Mapping) bool {
	t := strings.TrimSpace(color)
	if t == "" || !hasLetter(t) {
		return false
	}
	if knownColorWords[strings.ToLower(t)] {
		return false
	}
	if _, mapped := mapping.Lookup(t); mapped {
		return false
	}

	return len(t) <= suspectMaxLen || vowelPoor(t) || isAllCaps(t)
}

// SuspectCodes collects the distinct suspect codes from a list of raw
// color values, preserving first-seen order.
func SuspectCodes(colorValues []string, mapping Mapping) []string {
	seen := make(map[string]bool, len(colorValues))
	var codes []string
	for _, c := range colorValues {
		t := strings.TrimSpace(c)
		key := strings.ToLower(t)
		if seen[key] || !IsSuspectCode(t, mapping) {
			continue
		}
		seen[key] = true
		codes = append(codes, t)
	}
	return codes
}

// vowelPoor reports whether fewer than a quarter of the letters are vowels.
// "BLK" and "CHMPGN" qualify; "beige" does not.
func vowelPoor(s string) bool {
	letters, vowels := 0, 0
	for _, r := range strings.ToLower(s) {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if strings.ContainsRune("aeiouy", r) {
			vowels++
		}
	}
	if letters == 0 {
		return false
	}
	return float64(vowels)/float64(letters) < 0.25
}

func isAllCaps(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
