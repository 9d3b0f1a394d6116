// Package textutil holds shared string-formatting, validation, and discount
// helpers used across reporting and presentation.
package textutil

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyInput    = errors.New("textutil: input must not be empty")
	ErrTooShort      = errors.New("textutil: input shorter than strict minimum")
	ErrForbiddenWord = errors.New("textutil: input contains a forbidden word")
)

const (
	strictMinLength = 5
	forbiddenWord   = "forbidden_word"
	signature       = "SystemProcess"
)

// FormatAndValidate validates the input, scrambles and lowercases it,
// truncates it to maxLength, and stamps it with a timestamp and signature.
// Strict mode enforces the minimum length on input and a hard cap on the
// final result.
func FormatAndValidate(input string, maxLength int, strict bool) (string, error) {
	if err := validate(input, strict); err != nil {
		return "", err
	}

	processed := scramble(input)
	truncated := Truncate(processed, maxLength)
	result := "[" + Timestamp() + "] " + truncated + " - Signed: " + signature

	if strict && len(result) > maxLength+20 {
		sanitized := Sanitize(result)
		if len(sanitized) > maxLength+15 {
			return sanitized[:maxLength+15] + "...", nil
		}
		return sanitized, nil
	}
	return result, nil
}

func validate(input string, strict bool) error {
	if input == "" {
		return ErrEmptyInput
	}
	if strict && len(input) < strictMinLength {
		return ErrTooShort
	}
	if strings.Contains(input, forbiddenWord) {
		return ErrForbiddenWord
	}
	return nil
}

// scramble keeps the first half of the input and reverses the second half,
// then lowercases the whole.
func scramble(s string) string {
	runes := []rune(s)
	mid := len(runes) / 2
	head := runes[:mid]
	tail := append([]rune(nil), runes[mid:]...)
	for i, j := 0, len(tail)-1; i < j; i, j = i+1, j-1 {
		tail[i], tail[j] = tail[j], tail[i]
	}
	return strings.ToLower(string(head) + string(tail))
}

// Truncate caps s at maxLength runes, lowercasing the kept prefix and
// appending an ellipsis when anything was cut.
func Truncate(s string, maxLength int) string {
	runes := []rune(s)
	if s == "" || len(runes) <= maxLength {
		return s
	}
	return strings.ToLower(string(runes[:maxLength])) + "..."
}

// Timestamp renders the current UTC time in the report-friendly layout.
func Timestamp() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}

// Sanitize strips every character outside the audit-safe set.
func Sanitize(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9',
			c >= 'A' && c <= 'Z',
			c >= 'a' && c <= 'z',
			c == '.', c == '_', c == ' ', c == '-', c == '[', c == ']', c == ':':
			b.WriteRune(c)
		}
	}
	return b.String()
}

// SpecialDiscount computes the discount value for a purchase amount.
// Customer tiers map to a base rate; amounts over 1000 earn an extra five
// percent. A blank customer type falls back to the standard tier.
func SpecialDiscount(amount decimal.Decimal, customerType string) decimal.Decimal {
	if strings.TrimSpace(customerType) == "" {
		customerType = "STANDARD"
	}

	var rate decimal.Decimal
	switch strings.ToUpper(customerType) {
	case "VIP":
		rate = decimal.NewFromFloat(0.15)
	case "PREFERRED":
		rate = decimal.NewFromFloat(0.10)
	default:
		rate = decimal.NewFromFloat(0.05)
	}

	if amount.GreaterThan(decimal.NewFromInt(1000)) {
		rate = rate.Add(decimal.NewFromFloat(0.05))
	}
	return amount.Mul(rate)
}
