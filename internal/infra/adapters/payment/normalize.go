package payment

import (
	"encoding/json"
	"net/http"
	"strings"

	"fapshi-payment-facade/internal/domain"
	"fapshi-payment-facade/internal/domain/ports/adapter"
)

// Gateway error shapes are not contractually stable, so classification is
// ordered best-effort pattern matching: rules run first-match-wins over the
// response status and the lower-cased extracted message.
type classifierRule struct {
	payoutOnly bool
	kind       domain.Kind
	match      func(status int, msg string) bool
	// rewrite returns the caller-facing message; nil keeps the extracted one.
	rewrite func(op adapter.Operation) string
}

var classifierRules = []classifierRule{
	{
		// The gateway emits a typo'd field name ("userld") in one known
		// misconfiguration case.
		kind: domain.KindCredentialConfigError,
		match: func(_ int, msg string) bool {
			return strings.Contains(msg, "userld") || strings.Contains(msg, "user id")
		},
		rewrite: func(adapter.Operation) string {
			return "Invalid user ID. This may be an API configuration issue. Please check your Fapshi API credentials."
		},
	},
	{
		kind: domain.KindAuthError,
		match: func(status int, msg string) bool {
			return status == http.StatusUnauthorized || strings.Contains(msg, "unauthorized")
		},
		rewrite: func(op adapter.Operation) string {
			if op == adapter.OpPayout {
				return "Invalid API credentials. Please check your disbursement service credentials."
			}
			return "Invalid API credentials. Please check your FAPSHI_API_USER and FAPSHI_API_KEY."
		},
	},
	{
		payoutOnly: true,
		kind:       domain.KindServiceNotEnabled,
		match: func(_ int, msg string) bool {
			return strings.Contains(msg, "disbursement") || strings.Contains(msg, "payout")
		},
		rewrite: func(adapter.Operation) string {
			return "Payout service not enabled. You need to create a separate disbursement service in your Fapshi dashboard."
		},
	},
}

// Normalize maps a gateway failure onto the stable error taxonomy. The
// original body always travels along in RawDetails for diagnostics.
func Normalize(f *adapter.GatewayFailure) *domain.NormalizedError {
	if f.Unreachable {
		return &domain.NormalizedError{
			Kind:       domain.KindNetworkError,
			Message:    "Unable to connect to Fapshi API. Please check your internet connection and API credentials.",
			HTTPStatus: http.StatusServiceUnavailable,
		}
	}

	details, message := extractMessage(f)
	status := f.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	lower := strings.ToLower(message)
	for _, r := range classifierRules {
		if r.payoutOnly && f.Op != adapter.OpPayout {
			continue
		}
		if !r.match(f.HTTPStatus, lower) {
			continue
		}
		out := message
		if r.rewrite != nil {
			out = r.rewrite(f.Op)
		}
		return &domain.NormalizedError{Kind: r.kind, Message: out, HTTPStatus: status, RawDetails: details}
	}

	return &domain.NormalizedError{Kind: domain.KindRemoteRejected, Message: message, HTTPStatus: status, RawDetails: details}
}

// messageFields is the ordered list of body fields consulted for a
// human-readable message.
var messageFields = []string{"message", "error", "msg", "detail"}

func extractMessage(f *adapter.GatewayFailure) (details interface{}, message string) {
	fallback := "Failed to initiate payment. Please try again."
	if f.Op == adapter.OpPayout {
		fallback = "Failed to initiate payout. Please check if you have a disbursement service enabled."
	}

	var decoded interface{}
	if len(f.Body) > 0 && json.Unmarshal(f.Body, &decoded) == nil {
		switch v := decoded.(type) {
		case map[string]interface{}:
			for _, field := range messageFields {
				if s, ok := v[field].(string); ok && s != "" {
					return v, s
				}
			}
			return v, fallback
		case string:
			if v != "" {
				return v, v
			}
		}
	}
	if s := strings.TrimSpace(string(f.Body)); s != "" {
		return s, s
	}
	return nil, fallback
}
