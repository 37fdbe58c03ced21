package payment

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fapshi-payment-facade/internal/domain"
	"fapshi-payment-facade/internal/domain/model"
)

// Field aliases observed across gateway success variants, in preference
// order; no single alias is authoritative, so lookup is first-match-wins.
var (
	paymentLinkAliases   = []string{"link", "paymentLink"}
	transactionIDAliases = []string{"transactionId", "id"}
	payoutIDAliases      = []string{"payoutId", "id", "transactionId"}
	payoutStatusAliases  = []string{"status", "state"}
)

// firstAlias returns the first usable value among aliases, stringified.
// Numeric IDs are tolerated since the gateway is inconsistent about types.
func firstAlias(payload map[string]interface{}, aliases []string) string {
	for _, k := range aliases {
		switch v := payload[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			return v.String()
		}
	}
	return ""
}

// projectPayment shapes an initiate-pay success into the stable contract.
// A 2xx response without a payment link is a malformed success and fails.
func projectPayment(payload map[string]interface{}, externalID, mode string) (*model.PaymentResult, error) {
	link := firstAlias(payload, paymentLinkAliases)
	if link == "" {
		return nil, &domain.NormalizedError{
			Kind:       domain.KindMissingPaymentLink,
			Message:    "Gateway did not return a payment link.",
			HTTPStatus: http.StatusBadGateway,
			RawDetails: payload,
		}
	}
	return &model.PaymentResult{
		PaymentLink:   link,
		ExternalID:    externalID,
		TransactionID: firstAlias(payload, transactionIDAliases),
		Mode:          mode,
	}, nil
}

// projectPayout shapes a payout success; a missing status defaults to
// "pending" since disbursements settle asynchronously.
func projectPayout(payload map[string]interface{}, externalID string) *model.PayoutResult {
	status := firstAlias(payload, payoutStatusAliases)
	if status == "" {
		status = "pending"
	}
	return &model.PayoutResult{
		PayoutID:   firstAlias(payload, payoutIDAliases),
		ExternalID: externalID,
		Status:     status,
		Raw:        payload,
	}
}
