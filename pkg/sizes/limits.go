package sizes

import (
	"regexp"
	"strings"

	"github.com/mydressline-hue/stockpile/pkg/errors"
)

// Bounds holds optional per-domain min/max size labels. A nil field means
// that half of the range is unconstrained. The JSON field names are the
// persisted configuration format and must round-trip exactly.
type Bounds struct {
	MinSize       *string `json:"minSize,omitempty"`
	MaxSize       *string `json:"maxSize,omitempty"`
	MinPlusSize   *string `json:"minPlusSize,omitempty"`
	MaxPlusSize   *string `json:"maxPlusSize,omitempty"`
	MinLetterSize *string `json:"minLetterSize,omitempty"`
	MaxLetterSize *string `json:"maxLetterSize,omitempty"`
}

// PrefixOverride replaces bound fields for styles matching a pattern.
// The pattern is a regular expression; an invalid pattern falls back to a
// literal prefix match. Only fields the override explicitly sets replace the
// corresponding global bounds.
type PrefixOverride struct {
	Pattern string `json:"pattern"`
	Bounds
}

// LimitConfig is the persisted size-range filter configuration.
type LimitConfig struct {
	Enabled bool `json:"enabled"`
	Bounds
	PrefixOverrides []PrefixOverride `json:"prefixOverrides,omitempty"`
}

// isEmpty reports whether no bound field is set in any domain.
func (b Bounds) isEmpty() bool {
	return b.MinSize == nil && b.MaxSize == nil &&
		b.MinPlusSize == nil && b.MaxPlusSize == nil &&
		b.MinLetterSize == nil && b.MaxLetterSize == nil
}

// merge overlays o's explicitly set fields onto b and returns the result.
func (b Bounds) merge(o Bounds) Bounds {
	if o.MinSize != nil {
		b.MinSize = o.MinSize
	}
	if o.MaxSize != nil {
		b.MaxSize = o.MaxSize
	}
	if o.MinPlusSize != nil {
		b.MinPlusSize = o.MinPlusSize
	}
	if o.MaxPlusSize != nil {
		b.MaxPlusSize = o.MaxPlusSize
	}
	if o.MinLetterSize != nil {
		b.MinLetterSize = o.MinLetterSize
	}
	if o.MaxLetterSize != nil {
		b.MaxLetterSize = o.MaxLetterSize
	}
	return b
}

// matchesStyle reports whether a style matches the override's pattern.
// Invalid regular expressions degrade to a literal prefix test.
func (o PrefixOverride) matchesStyle(style string) bool {
	re, err := regexp.Compile(o.Pattern)
	if err != nil {
		return strings.HasPrefix(style, o.Pattern)
	}
	return re.MatchString(style)
}

// Validate checks that every configured bound is a recognized size label.
// It does not require bounds to be present: an enabled-but-unconfigured
// limiter is legal (and a no-op).
func (c *LimitConfig) Validate() error {
	check := func(field string, v *string) error {
		if v != nil && Rank(*v) == UnrankedSize {
			return errors.New(errors.ErrCodeInvalidConfig, "unrecognized size bound %s=%q", field, *v)
		}
		return nil
	}

	validate := func(b Bounds) error {
		for _, f := range []struct {
			name string
			v    *string
		}{
			{"minSize", b.MinSize}, {"maxSize", b.MaxSize},
			{"minPlusSize", b.MinPlusSize}, {"maxPlusSize", b.MaxPlusSize},
			{"minLetterSize", b.MinLetterSize}, {"maxLetterSize", b.MaxLetterSize},
		} {
			if err := check(f.name, f.v); err != nil {
				return err
			}
		}
		return nil
	}

	if err := validate(c.Bounds); err != nil {
		return err
	}
	for _, o := range c.PrefixOverrides {
		if err := validate(o.Bounds); err != nil {
			return err
		}
	}
	return nil
}

// IsAllowed reports whether a size passes the configured range filter for
// the given style.
//
// Resolution order:
//  1. A disabled config allows everything.
//  2. Effective bounds start from the global bounds; the first prefix
//     override matching the style (list order) overlays only the fields it
//     explicitly sets.
//  3. If no bound is set in any domain, everything is allowed: an enabled
//     but unconfigured limiter is a no-op.
//  4. Otherwise the size is checked against its own domain's bounds.
//     A size whose domain carries no bound while some other domain does is
//     rejected: partial configuration signals deliberate restriction, so
//     domains the operator did not address are excluded, not permitted.
//
// Unrecognized size labels always pass: the filter only constrains sizes it
// can rank, and the engine never drops data it cannot interpret.
func (c *LimitConfig) IsAllowed(size, style string) bool {
	if c == nil || !c.Enabled {
		return true
	}

	effective := c.Bounds
	for _, o := range c.PrefixOverrides {
		if o.matchesStyle(style) {
			effective = effective.merge(o.Bounds)
			break
		}
	}

	if effective.isEmpty() {
		return true
	}

	domain := DomainOf(size)
	if domain == DomainUnknown {
		return true
	}

	lo, hi, configured := effective.domainBounds(domain)
	if !configured {
		return false
	}
	return withinRank(Rank(size), lo, hi)
}

// domainBounds selects the bound pair for a domain. For the plus domain,
// if no plus bound is set but a plain-numeric bound is itself W-suffixed,
// the numeric bounds stand in for the plus range. This mirrors a legacy
// configuration habit of writing W sizes into the plain fields.
func (b Bounds) domainBounds(d Domain) (lo, hi *string, configured bool) {
	switch d {
	case DomainNumeric:
		lo, hi = b.MinSize, b.MaxSize
	case DomainPlus:
		lo, hi = b.MinPlusSize, b.MaxPlusSize
		if lo == nil && hi == nil && numericBoundsAreW(b) {
			lo, hi = b.MinSize, b.MaxSize
		}
	case DomainLetter:
		lo, hi = b.MinLetterSize, b.MaxLetterSize
	}
	return lo, hi, lo != nil || hi != nil
}

// numericBoundsAreW reports whether any plain-numeric bound label carries a
// W suffix.
func numericBoundsAreW(b Bounds) bool {
	isW := func(v *string) bool {
		return v != nil && DomainOf(*v) == DomainPlus
	}
	return isW(b.MinSize) || isW(b.MaxSize)
}

// withinRank checks rank against optional bound labels. A bound whose label
// is unrecognized is treated as unconstrained rather than failing the check.
func withinRank(rank int, lo, hi *string) bool {
	if lo != nil {
		if r := Rank(*lo); r != UnrankedSize && rank < r {
			return false
		}
	}
	if hi != nil {
		if r := Rank(*hi); r != UnrankedSize && rank > r {
			return false
		}
	}
	return true
}
