package usecase

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"fapshi-payment-facade/internal/domain"
	"fapshi-payment-facade/internal/domain/model"
)

// Validators are pure and total: every input yields either a normalized
// record or a classified *domain.NormalizedError, never a panic.

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{9,12}$`)
	whitespace   = regexp.MustCompile(`\s+`)
)

const (
	minPaymentAmount        = 100 // hard floor enforced by the gateway
	recommendedPaymentFloor = 500 // advisory only
	minPayoutAmount         = 500
)

// PaymentInput is the raw checkout submission from the storefront.
type PaymentInput struct {
	Amount      interface{} `json:"amount"`
	Email       string      `json:"email"`
	ProductName string      `json:"productName"`
	Description string      `json:"description"`
}

// PayoutInput is the raw withdrawal submission.
type PayoutInput struct {
	Amount      interface{} `json:"amount"`
	PhoneNumber string      `json:"phoneNumber"`
	Provider    string      `json:"provider"`
}

// parseAmount accepts the number-or-numeric-string shapes storefronts send.
// XAF has no subunits, so fractional values round to the nearest franc.
func parseAmount(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(math.Round(n)), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return int64(math.Round(f)), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return int64(math.Round(f)), true
	}
	return 0, false
}

// validatePayment normalizes a checkout submission. belowRecommended flags
// amounts in [100,500): accepted, but worth an advisory warning.
func validatePayment(in PaymentInput) (amount int64, email string, belowRecommended bool, err error) {
	amount, ok := parseAmount(in.Amount)
	if !ok || amount < minPaymentAmount {
		return 0, "", false, domain.Invalid(domain.KindInvalidAmount,
			"Amount must be at least 100 FCFA/XAF (minimum required by Fapshi)")
	}
	email = strings.ToLower(strings.TrimSpace(in.Email))
	if !emailPattern.MatchString(email) {
		return 0, "", false, domain.Invalid(domain.KindInvalidEmail,
			"Please enter a valid email address (e.g., test@example.com)")
	}
	return amount, email, amount < recommendedPaymentFloor, nil
}

// validatePayout normalizes a withdrawal submission. Provider matching is
// case-sensitive; phone is stripped of whitespace before the digit check.
func validatePayout(in PayoutInput) (amount int64, phone string, provider model.Provider, err error) {
	amount, ok := parseAmount(in.Amount)
	if !ok || amount < minPayoutAmount {
		return 0, "", "", domain.Invalid(domain.KindInvalidAmount,
			"Amount must be at least 500 FCFA/XAF")
	}
	switch model.Provider(in.Provider) {
	case model.ProviderMTN, model.ProviderOrange:
		provider = model.Provider(in.Provider)
	default:
		return 0, "", "", domain.Invalid(domain.KindInvalidProvider,
			"Provider must be either MTN or Orange")
	}
	phone = whitespace.ReplaceAllString(in.PhoneNumber, "")
	if !phonePattern.MatchString(phone) {
		return 0, "", "", domain.Invalid(domain.KindInvalidPhone,
			"Invalid phone number format")
	}
	return amount, phone, provider, nil
}
