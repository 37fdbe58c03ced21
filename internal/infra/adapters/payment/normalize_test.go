package payment

import (
	"net/http"
	"testing"

	"fapshi-payment-facade/internal/domain"
	"fapshi-payment-facade/internal/domain/ports/adapter"
)

func TestNormalize_Unreachable(t *testing.T) {
	got := Normalize(&adapter.GatewayFailure{Op: adapter.OpPayment, Unreachable: true})
	if got.Kind != domain.KindNetworkError {
		t.Fatalf("want network_error, got %s", got.Kind)
	}
	if got.HTTPStatus != http.StatusServiceUnavailable {
		t.Fatalf("want 503, got %d", got.HTTPStatus)
	}
}

func TestNormalize_MessageExtractionOrder(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message wins", `{"message":"m1","error":"e1"}`, "m1"},
		{"error second", `{"error":"e1","msg":"m2"}`, "e1"},
		{"msg third", `{"msg":"m2","detail":"d1"}`, "m2"},
		{"detail fourth", `{"detail":"d1"}`, "d1"},
		{"json string body", `"plain failure"`, "plain failure"},
		{"raw text body", `something broke`, "something broke"},
		{"empty body falls back", ``, "Failed to initiate payment. Please try again."},
		{"no known field falls back", `{"code":42}`, "Failed to initiate payment. Please try again."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(&adapter.GatewayFailure{Op: adapter.OpPayment, HTTPStatus: 400, Body: []byte(tc.body)})
			if got.Message != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got.Message)
			}
			if got.Kind != domain.KindRemoteRejected {
				t.Fatalf("want remote_rejected, got %s", got.Kind)
			}
		})
	}
}

func TestNormalize_CredentialConfigHeuristic(t *testing.T) {
	// The gateway is known to emit "userld" (typo) in one misconfiguration case.
	for _, body := range []string{
		`{"error":"invalid user id"}`,
		`{"message":"Invalid userld supplied"}`,
		`{"message":"bad USER ID"}`,
	} {
		got := Normalize(&adapter.GatewayFailure{Op: adapter.OpPayout, HTTPStatus: 400, Body: []byte(body)})
		if got.Kind != domain.KindCredentialConfigError {
			t.Fatalf("body %s: want credential_config_error, got %s", body, got.Kind)
		}
	}
}

func TestNormalize_AuthError(t *testing.T) {
	t.Run("401 status", func(t *testing.T) {
		got := Normalize(&adapter.GatewayFailure{Op: adapter.OpPayment, HTTPStatus: 401, Body: []byte(`{"message":"nope"}`)})
		if got.Kind != domain.KindAuthError {
			t.Fatalf("want auth_error, got %s", got.Kind)
		}
		if got.HTTPStatus != 401 {
			t.Fatalf("status should pass through, got %d", got.HTTPStatus)
		}
	})

	t.Run("unauthorized message", func(t *testing.T) {
		got := Normalize(&adapter.GatewayFailure{Op: adapter.OpPayment, HTTPStatus: 400, Body: []byte(`{"message":"Unauthorized access"}`)})
		if got.Kind != domain.KindAuthError {
			t.Fatalf("want auth_error, got %s", got.Kind)
		}
	})
}

func TestNormalize_RuleOrder(t *testing.T) {
	// Rule order matters: unauthorized outranks the payout-only
	// disbursement heuristic when both match.
	got := Normalize(&adapter.GatewayFailure{
		Op:         adapter.OpPayout,
		HTTPStatus: 403,
		Body:       []byte(`{"message":"unauthorized: disbursement service"}`),
	})
	if got.Kind != domain.KindAuthError {
		t.Fatalf("want auth_error (rule order), got %s", got.Kind)
	}
}

func TestNormalize_ServiceNotEnabled(t *testing.T) {
	t.Run("payout failure mentioning disbursement", func(t *testing.T) {
		got := Normalize(&adapter.GatewayFailure{Op: adapter.OpPayout, HTTPStatus: 403, Body: []byte(`{"message":"no disbursement service"}`)})
		if got.Kind != domain.KindServiceNotEnabled {
			t.Fatalf("want service_not_enabled, got %s", got.Kind)
		}
	})

	t.Run("payment failures never match the payout-only rule", func(t *testing.T) {
		got := Normalize(&adapter.GatewayFailure{Op: adapter.OpPayment, HTTPStatus: 403, Body: []byte(`{"message":"no disbursement service"}`)})
		if got.Kind != domain.KindRemoteRejected {
			t.Fatalf("want remote_rejected, got %s", got.Kind)
		}
	})
}

func TestNormalize_Deterministic(t *testing.T) {
	f := &adapter.GatewayFailure{Op: adapter.OpPayout, HTTPStatus: 400, Body: []byte(`{"error":"invalid user id"}`)}
	first := Normalize(f)
	for i := 0; i < 10; i++ {
		got := Normalize(f)
		if got.Kind != first.Kind || got.Message != first.Message || got.HTTPStatus != first.HTTPStatus {
			t.Fatalf("classification not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestNormalize_RawDetailsAlwaysCarried(t *testing.T) {
	got := Normalize(&adapter.GatewayFailure{Op: adapter.OpPayment, HTTPStatus: 401, Body: []byte(`{"message":"unauthorized","code":7}`)})
	m, ok := got.RawDetails.(map[string]interface{})
	if !ok {
		t.Fatalf("raw details should carry the decoded body, got %T", got.RawDetails)
	}
	if m["code"] != float64(7) {
		t.Fatalf("raw details lost fields: %v", m)
	}
}

func TestNormalize_ZeroStatusDefaultsTo500(t *testing.T) {
	got := Normalize(&adapter.GatewayFailure{Op: adapter.OpPayment, Body: []byte(`{"message":"weird"}`)})
	if got.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("want 500 default, got %d", got.HTTPStatus)
	}
}
