package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals malformed input rejected before verification.
	ErrValidation = errors.New("validation failed")
	// ErrTextTooShort signals input text below the minimum length.
	ErrTextTooShort = fmt.Errorf("%w: text too short", ErrValidation)
	// ErrTextTooLong signals input text above the maximum length.
	ErrTextTooLong = fmt.Errorf("%w: text too long", ErrValidation)
	// ErrNoSimilarArticles signals that no candidate passed the similarity threshold.
	ErrNoSimilarArticles = errors.New("no similar articles found")
	// ErrInsufficientData signals too few distinct sources for a verdict.
	ErrInsufficientData = errors.New("insufficient data for verification")
	// ErrVerificationInternal signals a configuration bug inside the verification core.
	ErrVerificationInternal = errors.New("verification internal error")
)

// InsufficientDataError wraps ErrInsufficientData with the required and found
// distinct-source counts so callers can display both.
type InsufficientDataError struct {
	Required int
	Found    int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: required %d sources, found %d",
		ErrInsufficientData.Error(), e.Required, e.Found)
}

func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }

// NewInsufficientData creates an insufficient data error.
func NewInsufficientData(required, found int) error {
	return &InsufficientDataError{Required: required, Found: found}
}
