package adapter

import (
	"context"
	"fmt"

	"fapshi-payment-facade/internal/domain/model"
)

// Operation names an outbound gateway call. The error normalizer applies
// payout-only heuristics, so failures carry their originating operation.
type Operation string

const (
	OpPayment Operation = "payment"
	OpPayout  Operation = "payout"
)

// GatewayFailure is a failed outbound call before normalization.
// Unreachable means no response was received at all; that case must never be
// confused with a rejection the gateway actually sent.
type GatewayFailure struct {
	Op          Operation
	Unreachable bool
	HTTPStatus  int
	Body        []byte
}

func (f *GatewayFailure) Error() string {
	if f.Unreachable {
		return fmt.Sprintf("gateway unreachable during %s", f.Op)
	}
	return fmt.Sprintf("gateway rejected %s with status %d", f.Op, f.HTTPStatus)
}

// PaymentGateway is the hex port for the mobile-money provider.
// Implementations return *domain.NormalizedError for every failure path, so
// callers never see a raw transport error.
type PaymentGateway interface {
	Name() string
	// Mode reports "sandbox" or "live" depending on the configured base URL.
	Mode() string

	// InitiatePayment creates a hosted checkout session and returns the
	// projected stable result. At most one outbound attempt is made.
	InitiatePayment(ctx context.Context, req *model.PaymentRequest) (*model.PaymentResult, error)
	// InitiatePayout sends funds to a recipient's mobile-money account.
	// Not idempotent on the provider side; callers must not retry blindly.
	InitiatePayout(ctx context.Context, req *model.PayoutRequest) (*model.PayoutResult, error)
}
