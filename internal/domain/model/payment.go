package model

import "github.com/google/uuid"

// Provider is a mobile-money operator accepted for payouts. Matching is
// case-sensitive: the storefront sends the exact enum value.
type Provider string

const (
	ProviderMTN    Provider = "MTN"
	ProviderOrange Provider = "Orange"
)

// Medium returns the gateway's wallet-medium spelling for the provider.
func (p Provider) Medium() string {
	if p == ProviderOrange {
		return "orange money"
	}
	return "mobile money"
}

// PaymentRequest is a validated, normalized checkout submission. Immutable
// once constructed; discarded after the gateway call completes.
type PaymentRequest struct {
	Amount      int64  // minor currency units (XAF), >= 100
	Email       string // trimmed and lower-cased
	RedirectURL string // the facade's own success page
	ExternalID  string // minted by the facade, never caller-supplied
	Message     string // optional description shown on the gateway page
}

// PayoutRequest is a validated disbursement submission.
type PayoutRequest struct {
	Amount     int64  // minor currency units (XAF), >= 500
	Phone      string // digits only, length 9-12
	Provider   Provider
	ExternalID string
}

// PaymentResult is the stable success contract for initiate-payment.
type PaymentResult struct {
	PaymentLink   string
	ExternalID    string
	TransactionID string
	Mode          string // "sandbox" | "live"
}

// PayoutResult is the stable success contract for initiate-payout.
// Raw keeps the full gateway payload for the caller's debugging field.
type PayoutResult struct {
	PayoutID   string
	ExternalID string
	Status     string
	Raw        map[string]interface{}
}

// NewExternalID mints the correlation token sent with every outbound gateway
// request. Uniqueness must be cryptographically negligible to collide, so a
// future reconciliation layer can trust it.
func NewExternalID() string {
	return uuid.NewString()
}
