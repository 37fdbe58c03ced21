package web

import (
	"html/template"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	red "fapshi-payment-facade/internal/infra/redis"
	"fapshi-payment-facade/internal/usecase"
)

// Server exposes the storefront-facing HTTP surface.
type Server struct {
	payUC     usecase.PaymentUseCase
	limiter   *red.RateLimiter // nil disables rate limiting
	perMinute int
	log       *zerolog.Logger
}

func NewServer(payUC usecase.PaymentUseCase, limiter *red.RateLimiter, perMinute int, logger *zerolog.Logger) *Server {
	return &Server{
		payUC:     payUC,
		limiter:   limiter,
		perMinute: perMinute,
		log:       logger,
	}
}

// Routes builds the router. The two money-moving endpoints sit behind the
// rate limiter; everything else is unthrottled.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/success", s.handleSuccessPage)
	r.Post("/api/webhook", s.handleWebhook)

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/api/initiate-payment", s.handleInitiatePayment)
		r.Post("/api/initiate-payout", s.handleInitiatePayout)
	})

	return r
}

// rateLimit applies a per-IP fixed window to money-moving endpoints.
// Redis errors fail open: a broken limiter must not block checkout.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		key := red.RouteKey(clientIP(r), r.URL.Path)
		allowed, err := s.limiter.Allow(r.Context(), key, s.perMinute, time.Minute)
		if err != nil {
			s.log.Warn().Err(err).Msg("rate limiter unavailable; allowing request")
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Success: false,
				Error:   "Too many requests. Please slow down and try again.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// requestBaseURL reconstructs the externally visible base URL for the
// current request, so the gateway redirect lands back on this deployment.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

var successPage = template.Must(template.New("success").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width,initial-scale=1" />
<title>Payment Successful</title>
<style>
body{font-family:system-ui,Arial,sans-serif;margin:2rem;}
.card{max-width:560px;border:1px solid #ddd;border-radius:12px;padding:24px;}
.ok{color:#057a55}
.small{font-size:12px;color:#666}
</style>
</head>
<body>
<div class="card">
  <h2 class="ok">Payment Successful</h2>
  <p>Your payment has been processed. You can close this page and return to the store.</p>
  {{if .ExternalID}}<div class="small">Reference: {{.ExternalID}}</div>{{end}}
</div>
</body>
</html>`))

// handleSuccessPage is the landing target of the redirectUrl embedded in
// every payment body. The gateway may append its own query parameters; only
// externalId is surfaced back to the buyer as a reference.
func (s *Server) handleSuccessPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = successPage.Execute(w, struct {
		ExternalID string
	}{
		ExternalID: r.URL.Query().Get("externalId"),
	})
}
