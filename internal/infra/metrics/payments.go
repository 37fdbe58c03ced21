package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentsTotal,
		payoutsTotal,
		gatewayErrorsTotal,
		gatewayRequestSeconds,
	)
}

var (
	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payment initiations by outcome (initiated/rejected/failed).",
		},
		[]string{"outcome"},
	)

	payoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payouts_total",
			Help: "Payout initiations by outcome (initiated/rejected/failed).",
		},
		[]string{"outcome"},
	)

	gatewayErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_errors_total",
			Help: "Normalized gateway errors by taxonomy kind.",
		},
		[]string{"kind"},
	)

	gatewayRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Outbound gateway call latency by operation.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func IncPayment(outcome string) {
	paymentsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncPayout(outcome string) {
	payoutsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncGatewayError(kind string) {
	gatewayErrorsTotal.WithLabelValues(norm(kind)).Inc()
}

func ObserveGatewayRequest(operation string, seconds float64) {
	gatewayRequestSeconds.WithLabelValues(norm(operation)).Observe(seconds)
}
