package payments

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultLimit applies when the caller sends no limit or an
	// unparsable one.
	DefaultLimit = 100
	MinLimit     = 1
	MaxLimit     = 500
)

// ValidationError marks a client-caused input failure. Its message is safe
// to return in a response body.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationError(msg string) error { return &ValidationError{msg: msg} }

// IsValidationError reports whether err originated from input validation.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ValidateNew normalizes a raw create request into a NewPayment. amount
// accepts whatever the JSON decoder produced: a number, a numeric string,
// or a json.Number.
func ValidateNew(reference string, amount any, currency, defaultCurrency string) (NewPayment, error) {
	ref := strings.TrimSpace(reference)
	if ref == "" {
		return NewPayment{}, validationError("reference required")
	}

	f, ok := toFloat(amount)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return NewPayment{}, validationError("amount must be numeric")
	}

	cents := int64(math.Round(f))
	if cents <= 0 {
		return NewPayment{}, validationError("amount must be > 0")
	}

	cur := strings.TrimSpace(currency)
	if cur == "" {
		cur = defaultCurrency
	}

	return NewPayment{Reference: ref, AmountCents: cents, Currency: cur}, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ClampLimit parses a raw list limit, silently falling back to
// DefaultLimit when unparsable and clamping into [MinLimit, MaxLimit].
// The result is the only value trusted enough to be embedded in SQL text.
func ClampLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		n = DefaultLimit
	}
	if n < MinLimit {
		n = MinLimit
	}
	if n > MaxLimit {
		n = MaxLimit
	}
	return n
}

// CleanQuery trims a free-text search filter. An empty result means "no
// filter", never a filter on the empty string.
func CleanQuery(raw string) string {
	return strings.TrimSpace(raw)
}

// ParseID validates a path id as a positive integer.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, validationError("invalid id")
	}
	return id, nil
}
