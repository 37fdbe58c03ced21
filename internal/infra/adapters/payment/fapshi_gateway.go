package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fapshi-payment-facade/internal/config"
	"fapshi-payment-facade/internal/domain/model"
	"fapshi-payment-facade/internal/domain/ports/adapter"
	"fapshi-payment-facade/internal/infra/metrics"
)

var _ adapter.PaymentGateway = (*FapshiGateway)(nil)

type credentials struct {
	user string
	key  string
}

// FapshiGateway implements adapter.PaymentGateway against the Fapshi REST
// API. Collections and disbursements are separate services on the provider
// side, each with its own credential pair.
type FapshiGateway struct {
	baseURL      string
	collection   credentials
	disbursement credentials
	live         bool
	client       *http.Client
}

func NewFapshiGateway(cfg config.GatewayConfig) (*FapshiGateway, error) {
	if strings.TrimSpace(cfg.APIUser) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gateway credentials empty")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	du, dk := cfg.DisbursementCredentials()
	return &FapshiGateway{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		collection:   credentials{user: cfg.APIUser, key: cfg.APIKey},
		disbursement: credentials{user: du, key: dk},
		live:         cfg.Live(),
		client:       &http.Client{Timeout: timeout},
	}, nil
}

func (g *FapshiGateway) Name() string { return "fapshi" }

func (g *FapshiGateway) Mode() string {
	if g.live {
		return "live"
	}
	return "sandbox"
}

// paymentBody maps a validated checkout onto the initiate-pay wire shape.
func paymentBody(req *model.PaymentRequest) map[string]interface{} {
	body := map[string]interface{}{
		"amount":      req.Amount,
		"email":       req.Email,
		"redirectUrl": req.RedirectURL,
		"externalId":  req.ExternalID,
	}
	if req.Message != "" {
		body["message"] = req.Message
	}
	return body
}

// payoutBody maps a validated payout onto the payout wire shape. The
// accepted field names are not reliably documented, so every plausible
// alias is sent: both phone spellings, and medium alongside provider.
func payoutBody(req *model.PayoutRequest) map[string]interface{} {
	return map[string]interface{}{
		"amount":      req.Amount,
		"phone":       req.Phone,
		"phoneNumber": req.Phone,
		"medium":      req.Provider.Medium(),
		"provider":    string(req.Provider),
		"externalId":  req.ExternalID,
	}
}

func (g *FapshiGateway) InitiatePayment(ctx context.Context, req *model.PaymentRequest) (*model.PaymentResult, error) {
	payload, fail := g.post(ctx, adapter.OpPayment, "/initiate-pay", paymentBody(req), g.collection)
	if fail != nil {
		return nil, Normalize(fail)
	}
	return projectPayment(payload, req.ExternalID, g.Mode())
}

func (g *FapshiGateway) InitiatePayout(ctx context.Context, req *model.PayoutRequest) (*model.PayoutResult, error) {
	payload, fail := g.post(ctx, adapter.OpPayout, "/payout", payoutBody(req), g.disbursement)
	if fail != nil {
		return nil, Normalize(fail)
	}
	return projectPayout(payload, req.ExternalID), nil
}

// post issues a single outbound attempt. Transport failures (no response
// received) and gateway rejections (non-2xx response) are reported as
// distinct GatewayFailure shapes; retries are the caller's concern.
func (g *FapshiGateway) post(ctx context.Context, op adapter.Operation, path string, body map[string]interface{}, creds credentials) (map[string]interface{}, *adapter.GatewayFailure) {
	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, &adapter.GatewayFailure{Op: op, Unreachable: true}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apiuser", creds.user)
	req.Header.Set("apikey", creds.key)

	start := time.Now()
	resp, err := g.client.Do(req)
	metrics.ObserveGatewayRequest(string(op), time.Since(start).Seconds())
	if err != nil {
		return nil, &adapter.GatewayFailure{Op: op, Unreachable: true}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &adapter.GatewayFailure{Op: op, HTTPStatus: resp.StatusCode, Body: raw}
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		// Undecodable success body; the projector decides what is fatal.
		payload = map[string]interface{}{}
	}
	return payload, nil
}
