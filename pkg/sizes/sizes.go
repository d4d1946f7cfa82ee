// Package sizes implements the size taxonomy used across extraction,
// variant expansion, and configuration validation.
//
// Two disjoint ranked vocabularies are recognized:
//
//   - The numeric domain: 000, 00, 0, 2, 4, ... 36, where each plus ("W")
//     variant ranks immediately after its base size (16 < 16W < 18).
//   - The letter domain: XXS through 5XL, with aliases like XXL folded onto
//     2XL at the same rank.
//
// Everything else is unrecognized and ranks -1. Letter and numeric ranks
// occupy disjoint numeric ranges so a cross-domain comparison can never
// alias two different sizes onto one rank.
package sizes

import "strings"

// Domain classifies a size label into one of the taxonomy's vocabularies.
type Domain int

const (
	// DomainUnknown marks labels outside both vocabularies.
	DomainUnknown Domain = iota
	// DomainNumeric covers plain numeric sizes (000 through 36).
	DomainNumeric
	// DomainPlus covers W-suffixed numeric sizes (e.g. 16W).
	DomainPlus
	// DomainLetter covers letter sizes (XXS through 5XL).
	DomainLetter
)

// String returns the domain name for logging.
func (d Domain) String() string {
	switch d {
	case DomainNumeric:
		return "numeric"
	case DomainPlus:
		return "plus"
	case DomainLetter:
		return "letter"
	default:
		return "unknown"
	}
}

// UnrankedSize is returned by Rank for labels outside the taxonomy.
const UnrankedSize = -1

// numericSizes is the ordered plain-numeric vocabulary.
var numericSizes = []string{
	"000", "00", "0",
	"2", "4", "6", "8", "10", "12", "14", "16",
	"18", "20", "22", "24", "26", "28", "30", "32", "34", "36",
}

// letterSizes is the ordered letter vocabulary in canonical form.
var letterSizes = []string{"XXS", "XS", "S", "M", "L", "XL", "2XL", "3XL", "4XL", "5XL"}

// letterAliases fold alternative spellings onto the canonical label, and
// therefore onto the same rank.
var letterAliases = map[string]string{
	"XXL":    "2XL",
	"XXXL":   "3XL",
	"XXXXL":  "4XL",
	"XXXXXL": "5XL",
}

// letterRankBase and numericRankBase keep the two domains in disjoint rank
// ranges. Letter ranks are 1..len(letterSizes); numeric ranks start at 100.
const (
	letterRankBase  = 1
	numericRankBase = 100
)

var (
	letterRanks  map[string]int
	numericRanks map[string]int
)

func init() {
	letterRanks = make(map[string]int, len(letterSizes)+len(letterAliases))
	for i, s := range letterSizes {
		letterRanks[s] = letterRankBase + i
	}
	for alias, canonical := range letterAliases {
		letterRanks[alias] = letterRanks[canonical]
	}

	numericRanks = make(map[string]int, 2*len(numericSizes))
	for i, s := range numericSizes {
		// Base sizes take even slots, their W variant the odd slot right after.
		numericRanks[s] = numericRankBase + 2*i
		numericRanks[s+"W"] = numericRankBase + 2*i + 1
	}
}

// normalize uppercases and trims a raw size label for lookup.
func normalize(size string) string {
	return strings.ToUpper(strings.TrimSpace(size))
}

// Rank returns the taxonomy rank of a size label, or UnrankedSize if the
// label is outside both vocabularies. Lookup is case-insensitive and exact:
// no fuzzy matching is attempted.
func Rank(size string) int {
	s := normalize(size)
	if r, ok := letterRanks[s]; ok {
		return r
	}
	if r, ok := numericRanks[s]; ok {
		return r
	}
	return UnrankedSize
}

// DomainOf classifies a size label.
func DomainOf(size string) Domain {
	s := normalize(size)
	if _, ok := letterRanks[s]; ok {
		return DomainLetter
	}
	if _, ok := numericRanks[s]; ok {
		if strings.HasSuffix(s, "W") {
			return DomainPlus
		}
		return DomainNumeric
	}
	return DomainUnknown
}

// Canonical returns the canonical form of a recognized size label
// (alias-folded, uppercased), or the trimmed input if unrecognized.
// An explicit "0" or "00" is a real size and passes through unchanged.
func Canonical(size string) string {
	s := normalize(size)
	if c, ok := letterAliases[s]; ok {
		return c
	}
	return s
}

// Sequence returns the ordered size labels for a domain, used by variant
// expansion to walk to neighboring sizes. The slice is shared; callers must
// not modify it. DomainUnknown has no sequence and returns nil.
func Sequence(d Domain) []string {
	switch d {
	case DomainNumeric:
		return numericSizes
	case DomainPlus:
		return plusSizes
	case DomainLetter:
		return letterSizes
	default:
		return nil
	}
}

// plusSizes mirrors numericSizes with the W suffix applied.
var plusSizes = func() []string {
	out := make([]string, len(numericSizes))
	for i, s := range numericSizes {
		out[i] = s + "W"
	}
	return out
}()

// IndexIn returns the position of a size within its domain sequence, or -1
// if the size does not belong to the domain.
func IndexIn(d Domain, size string) int {
	s := Canonical(size)
	for i, candidate := range Sequence(d) {
		if candidate == s {
			return i
		}
	}
	return -1
}

// IsSizeToken reports whether a token is a recognized size label in either
// domain. The price-cache folding uses this to avoid mistaking a size segment
// for a style identifier.
func IsSizeToken(token string) bool {
	return Rank(token) != UnrankedSize
}
