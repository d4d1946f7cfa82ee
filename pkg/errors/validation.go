package errors

import (
	"strings"
	"unicode"
)

// ValidateSourceID validates a data-source identifier used to scope registry
// and cache operations. Source IDs end up in cache keys and database filters,
// so the rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - No path or key separator characters
//   - Maximum length of 128 characters
func ValidateSourceID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "source id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "source id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "source id contains control characters")
		}
	}

	if strings.ContainsAny(id, "/\\: \x00") {
		return New(ErrCodeInvalidInput, "source id contains invalid characters")
	}

	return nil
}

// ValidateStyle validates a vendor style identifier before it is written to
// the discontinued-style registry. Styles arrive from arbitrary spreadsheet
// cells, so anything that survives normalization but is still unusable is
// rejected here rather than stored.
func ValidateStyle(style string) error {
	if strings.TrimSpace(style) == "" {
		return New(ErrCodeInvalidStyle, "style cannot be empty")
	}

	if len(style) > 256 {
		return New(ErrCodeInvalidStyle, "style too long (max 256 characters)")
	}

	for _, r := range style {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidStyle, "style contains control characters")
		}
	}

	return nil
}
