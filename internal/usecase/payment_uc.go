package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"fapshi-payment-facade/internal/domain"
	"fapshi-payment-facade/internal/domain/model"
	"fapshi-payment-facade/internal/domain/ports/adapter"
	"fapshi-payment-facade/internal/infra/logging"
	"fapshi-payment-facade/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type PaymentUseCase interface {
	// InitiatePayment validates a checkout submission, mints the external
	// correlation id, and creates a hosted payment session. redirectBase is
	// the facade's own base URL for the current request (scheme://host), so
	// the gateway redirects buyers back here regardless of deployment address.
	InitiatePayment(ctx context.Context, in PaymentInput, redirectBase string) (*model.PaymentResult, error)
	// InitiatePayout validates and sends a disbursement. At most one outbound
	// attempt: payouts are not safe to retry blindly.
	InitiatePayout(ctx context.Context, in PayoutInput) (*model.PayoutResult, error)
}

type paymentUC struct {
	gateway adapter.PaymentGateway
	log     *zerolog.Logger
	dev     bool
}

func NewPaymentUseCase(gateway adapter.PaymentGateway, logger *zerolog.Logger, dev bool) *paymentUC {
	return &paymentUC{gateway: gateway, log: logger, dev: dev}
}

func (u *paymentUC) InitiatePayment(ctx context.Context, in PaymentInput, redirectBase string) (*model.PaymentResult, error) {
	defer logging.TraceDuration(u.log, "PaymentUC.InitiatePayment")()

	amount, email, belowRecommended, err := validatePayment(in)
	if err != nil {
		metrics.IncPayment("rejected")
		return nil, err
	}
	if belowRecommended {
		u.log.Warn().Int64("amount", amount).Msg("amount below recommended minimum of 500 XAF")
	}

	// description wins over productName for the gateway message field
	message := in.Description
	if message == "" {
		message = in.ProductName
	}

	req := &model.PaymentRequest{
		Amount:      amount,
		Email:       email,
		RedirectURL: strings.TrimRight(redirectBase, "/") + "/success",
		ExternalID:  model.NewExternalID(),
		Message:     message,
	}

	log := logging.With(logging.WithExternalID(ctx, req.ExternalID), u.log)
	log.Info().
		Str("gateway", u.gateway.Name()).
		Str("mode", u.gateway.Mode()).
		Int64("amount", amount).
		Str("email", logging.Redact(email, u.dev)).
		Msg("initiating payment")

	res, err := u.gateway.InitiatePayment(ctx, req)
	if err != nil {
		u.recordFailure(err, metrics.IncPayment)
		log.Error().Err(err).Msg("payment initiation failed")
		return nil, err
	}
	metrics.IncPayment("initiated")
	return res, nil
}

func (u *paymentUC) InitiatePayout(ctx context.Context, in PayoutInput) (*model.PayoutResult, error) {
	defer logging.TraceDuration(u.log, "PaymentUC.InitiatePayout")()

	amount, phone, provider, err := validatePayout(in)
	if err != nil {
		metrics.IncPayout("rejected")
		return nil, err
	}

	req := &model.PayoutRequest{
		Amount:     amount,
		Phone:      phone,
		Provider:   provider,
		ExternalID: model.NewExternalID(),
	}

	log := logging.With(logging.WithExternalID(ctx, req.ExternalID), u.log)
	log.Info().
		Str("gateway", u.gateway.Name()).
		Str("mode", u.gateway.Mode()).
		Int64("amount", amount).
		Str("provider", string(provider)).
		Str("phone", logging.Redact(phone, u.dev)).
		Msg("initiating payout")

	res, err := u.gateway.InitiatePayout(ctx, req)
	if err != nil {
		u.recordFailure(err, metrics.IncPayout)
		log.Error().Err(err).Msg("payout initiation failed")
		return nil, err
	}
	metrics.IncPayout("initiated")
	return res, nil
}

func (u *paymentUC) recordFailure(err error, inc func(string)) {
	inc("failed")
	var nerr *domain.NormalizedError
	if errors.As(err, &nerr) {
		metrics.IncGatewayError(string(nerr.Kind))
	}
}
