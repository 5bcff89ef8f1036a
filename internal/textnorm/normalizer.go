// Package textnorm prepares raw claim text for similarity search.
package textnorm

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"

	"github.com/teyit-cloud/teyit/internal/domain"
)

// Input length bounds, applied to the raw text before cleaning.
const (
	DefaultMinLength = 100
	DefaultMaxLength = 50000
)

var (
	urlPattern   = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Normalizer cleans claim text: HTML is stripped, URLs and e-mail addresses
// removed, the text NFC-normalized, lowercased with Turkish casing rules, and
// whitespace collapsed. Cleaning never changes the verdict of length
// validation, which runs on the raw input.
type Normalizer struct {
	policy    *bluemonday.Policy
	minLength int
	maxLength int
}

// New creates a Normalizer with the default length bounds.
func New() *Normalizer {
	return &Normalizer{
		policy:    bluemonday.StrictPolicy(),
		minLength: DefaultMinLength,
		maxLength: DefaultMaxLength,
	}
}

// WithLengthBounds overrides the raw-input length bounds. Non-positive values
// keep the current bound.
func (n *Normalizer) WithLengthBounds(minLength, maxLength int) *Normalizer {
	if minLength > 0 {
		n.minLength = minLength
	}
	if maxLength > 0 {
		n.maxLength = maxLength
	}
	return n
}

// Normalize validates and cleans one claim text.
func (n *Normalizer) Normalize(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if runeLen(trimmed) < n.minLength {
		return "", domain.ErrTextTooShort
	}
	if runeLen(trimmed) > n.maxLength {
		return "", domain.ErrTextTooLong
	}

	clean := n.policy.Sanitize(trimmed)
	clean = html.UnescapeString(clean)
	clean = urlPattern.ReplaceAllString(clean, " ")
	clean = emailPattern.ReplaceAllString(clean, " ")
	clean = norm.NFC.String(clean)
	clean = strings.ToLowerSpecial(unicode.TurkishCase, clean)
	clean = spacePattern.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(clean)

	if clean == "" {
		return "", domain.ErrValidation
	}
	return clean, nil
}

func runeLen(s string) int { return len([]rune(s)) }
