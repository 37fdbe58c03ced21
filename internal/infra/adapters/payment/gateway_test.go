package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fapshi-payment-facade/internal/config"
	"fapshi-payment-facade/internal/domain"
	"fapshi-payment-facade/internal/domain/model"
)

func testGatewayConfig(baseURL string) config.GatewayConfig {
	return config.GatewayConfig{
		BaseURL: baseURL,
		APIUser: "user-1",
		APIKey:  "key-1",
		Timeout: 2 * time.Second,
	}
}

func TestFapshiGateway_PaymentWireFormat(t *testing.T) {
	var gotPath string
	var gotHeaders http.Header
	var gotBody map[string]interface{}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"link": "https://pay/1", "transactionId": "TX-1"})
	}))
	defer ts.Close()

	gw, err := NewFapshiGateway(testGatewayConfig(ts.URL))
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}

	req := &model.PaymentRequest{
		Amount:      5000,
		Email:       "buyer@test.com",
		RedirectURL: "http://shop.example/success",
		ExternalID:  "ext-1",
		Message:     "Order #42",
	}
	res, err := gw.InitiatePayment(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/initiate-pay" {
		t.Fatalf("path: got %q", gotPath)
	}
	if gotHeaders.Get("apiuser") != "user-1" || gotHeaders.Get("apikey") != "key-1" {
		t.Fatalf("credential headers missing: %v", gotHeaders)
	}
	if gotBody["amount"] != float64(5000) || gotBody["email"] != "buyer@test.com" {
		t.Fatalf("body mismatch: %v", gotBody)
	}
	if gotBody["redirectUrl"] != "http://shop.example/success" || gotBody["externalId"] != "ext-1" {
		t.Fatalf("body mismatch: %v", gotBody)
	}
	if gotBody["message"] != "Order #42" {
		t.Fatalf("message missing: %v", gotBody)
	}
	if res.PaymentLink != "https://pay/1" || res.TransactionID != "TX-1" || res.Mode != "sandbox" {
		t.Fatalf("result mismatch: %+v", res)
	}
}

func TestFapshiGateway_PaymentOmitsEmptyMessage(t *testing.T) {
	var gotBody map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"link": "https://pay/1"})
	}))
	defer ts.Close()

	gw, _ := NewFapshiGateway(testGatewayConfig(ts.URL))
	_, err := gw.InitiatePayment(context.Background(), &model.PaymentRequest{
		Amount: 1000, Email: "a@b.com", RedirectURL: "http://x/success", ExternalID: "ext-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, present := gotBody["message"]; present {
		t.Fatalf("empty message must be omitted: %v", gotBody)
	}
}

func TestFapshiGateway_PayoutWireFormat(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"payoutId": "PO-1", "status": "pending"})
	}))
	defer ts.Close()

	gw, _ := NewFapshiGateway(testGatewayConfig(ts.URL))

	t.Run("MTN sends mobile money medium", func(t *testing.T) {
		_, err := gw.InitiatePayout(context.Background(), &model.PayoutRequest{
			Amount: 2500, Phone: "677123456", Provider: model.ProviderMTN, ExternalID: "ext-1",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotPath != "/payout" {
			t.Fatalf("path: got %q", gotPath)
		}
		// Both phone spellings and both medium/provider go on the wire.
		if gotBody["phone"] != "677123456" || gotBody["phoneNumber"] != "677123456" {
			t.Fatalf("phone alias fan-out missing: %v", gotBody)
		}
		if gotBody["medium"] != "mobile money" || gotBody["provider"] != "MTN" {
			t.Fatalf("medium/provider mismatch: %v", gotBody)
		}
	})

	t.Run("Orange sends orange money medium", func(t *testing.T) {
		_, err := gw.InitiatePayout(context.Background(), &model.PayoutRequest{
			Amount: 2500, Phone: "699000111", Provider: model.ProviderOrange, ExternalID: "ext-2",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotBody["medium"] != "orange money" || gotBody["provider"] != "Orange" {
			t.Fatalf("medium/provider mismatch: %v", gotBody)
		}
	})
}

func TestFapshiGateway_DisbursementCredentialFallback(t *testing.T) {
	var gotHeaders http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"payoutId": "PO-1"})
	}))
	defer ts.Close()

	t.Run("falls back to collection pair", func(t *testing.T) {
		gw, _ := NewFapshiGateway(testGatewayConfig(ts.URL))
		_, _ = gw.InitiatePayout(context.Background(), &model.PayoutRequest{
			Amount: 1000, Phone: "677123456", Provider: model.ProviderMTN, ExternalID: "ext-1",
		})
		if gotHeaders.Get("apiuser") != "user-1" || gotHeaders.Get("apikey") != "key-1" {
			t.Fatalf("fallback credentials not used: %v", gotHeaders)
		}
	})

	t.Run("dedicated pair used when set", func(t *testing.T) {
		cfg := testGatewayConfig(ts.URL)
		cfg.DisbursementAPIUser = "disb-user"
		cfg.DisbursementAPIKey = "disb-key"
		gw, _ := NewFapshiGateway(cfg)
		_, _ = gw.InitiatePayout(context.Background(), &model.PayoutRequest{
			Amount: 1000, Phone: "677123456", Provider: model.ProviderMTN, ExternalID: "ext-1",
		})
		if gotHeaders.Get("apiuser") != "disb-user" || gotHeaders.Get("apikey") != "disb-key" {
			t.Fatalf("dedicated credentials not used: %v", gotHeaders)
		}
	})
}

func TestFapshiGateway_UnreachableClassifiedAsNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // nothing is listening anymore

	gw, _ := NewFapshiGateway(testGatewayConfig(ts.URL))
	_, err := gw.InitiatePayment(context.Background(), &model.PaymentRequest{
		Amount: 1000, Email: "a@b.com", RedirectURL: "http://x/success", ExternalID: "ext-1",
	})

	var nerr *domain.NormalizedError
	if !errors.As(err, &nerr) {
		t.Fatalf("want *domain.NormalizedError, got %T", err)
	}
	if nerr.Kind != domain.KindNetworkError || nerr.HTTPStatus != http.StatusServiceUnavailable {
		t.Fatalf("want network_error/503, got %s/%d", nerr.Kind, nerr.HTTPStatus)
	}
}

func TestFapshiGateway_RejectionClassified(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer ts.Close()

	gw, _ := NewFapshiGateway(testGatewayConfig(ts.URL))
	_, err := gw.InitiatePayment(context.Background(), &model.PaymentRequest{
		Amount: 1000, Email: "a@b.com", RedirectURL: "http://x/success", ExternalID: "ext-1",
	})

	var nerr *domain.NormalizedError
	if !errors.As(err, &nerr) {
		t.Fatalf("want *domain.NormalizedError, got %T", err)
	}
	if nerr.Kind != domain.KindAuthError || nerr.HTTPStatus != http.StatusUnauthorized {
		t.Fatalf("want auth_error/401, got %s/%d", nerr.Kind, nerr.HTTPStatus)
	}
}

func TestFapshiGateway_MalformedSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
	}))
	defer ts.Close()

	gw, _ := NewFapshiGateway(testGatewayConfig(ts.URL))
	_, err := gw.InitiatePayment(context.Background(), &model.PaymentRequest{
		Amount: 1000, Email: "a@b.com", RedirectURL: "http://x/success", ExternalID: "ext-1",
	})

	var nerr *domain.NormalizedError
	if !errors.As(err, &nerr) || nerr.Kind != domain.KindMissingPaymentLink {
		t.Fatalf("want missing_payment_link, got %v", err)
	}
}

func TestNewFapshiGateway_RejectsEmptyCredentials(t *testing.T) {
	cfg := testGatewayConfig("https://sandbox.fapshi.com")
	cfg.APIKey = "  "
	if _, err := NewFapshiGateway(cfg); err == nil {
		t.Fatal("want error for empty credentials")
	}
}

func TestFapshiGateway_Mode(t *testing.T) {
	for _, tc := range []struct {
		base string
		want string
	}{
		{"https://sandbox.fapshi.com", "sandbox"},
		{"https://live.fapshi.com", "live"},
		{"https://api.fapshi.com", "live"},
	} {
		cfg := testGatewayConfig(tc.base)
		gw, err := NewFapshiGateway(cfg)
		if err != nil {
			t.Fatalf("%s: %v", tc.base, err)
		}
		if gw.Mode() != tc.want {
			t.Fatalf("%s: want %s, got %s", tc.base, tc.want, gw.Mode())
		}
	}
}
