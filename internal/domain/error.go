package domain

import "fmt"

// Kind classifies every failure the facade can surface to a caller.
type Kind string

const (
	// Local validation failures; never reach the gateway.
	KindInvalidAmount   Kind = "invalid_amount"
	KindInvalidEmail    Kind = "invalid_email"
	KindInvalidPhone    Kind = "invalid_phone"
	KindInvalidProvider Kind = "invalid_provider"

	// Gateway-side failures.
	KindNetworkError          Kind = "network_error"
	KindAuthError             Kind = "auth_error"
	KindCredentialConfigError Kind = "credential_config_error"
	KindServiceNotEnabled     Kind = "service_not_enabled"
	KindRemoteRejected        Kind = "remote_rejected"

	// The HTTP call succeeded but the payload is unusable.
	KindMissingPaymentLink Kind = "missing_payment_link"
)

// NormalizedError is the single error shape crossing component boundaries.
// HTTPStatus is the status the caller-facing handler should emit; RawDetails
// carries the original gateway body for diagnostics and is never interpreted.
type NormalizedError struct {
	Kind       Kind
	Message    string
	HTTPStatus int
	RawDetails interface{}
}

func (e *NormalizedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Invalid constructs a local validation error. These always map to 400.
func Invalid(kind Kind, message string) *NormalizedError {
	return &NormalizedError{Kind: kind, Message: message, HTTPStatus: 400}
}
