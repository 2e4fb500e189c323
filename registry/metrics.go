package registry

import (
	"time"

	"github.com/go-errors/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/privacybydesign/investoruid"
)

// Metrics provides observability for the registry. A nil *Metrics records
// nothing.
type Metrics struct {
	// Proof verification outcomes by proof version and outcome
	Verifications *prometheus.CounterVec

	VerifyLatency prometheus.Histogram

	// Stored claims by kind ("cdd", "uniqueness")
	ClaimsAdded *prometheus.CounterVec
}

// NewMetrics creates the registry metrics and registers them with reg. A nil
// reg creates unregistered metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Verifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "investoruid_registry_verifications_total",
			Help: "Investor uniqueness proof verifications by proof version and outcome",
		}, []string{"version", "outcome"}),

		VerifyLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "investoruid_registry_verify_duration_seconds",
			Help:    "Duration of a single investor uniqueness proof verification",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),

		ClaimsAdded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "investoruid_registry_claims_added_total",
			Help: "Claims accepted into the registry by kind",
		}, []string{"kind"}),
	}
}

func (m *Metrics) ObserveVerification(version investoruid.ProofVersion, err error, d time.Duration) {
	if m != nil {
		m.Verifications.WithLabelValues(version.String(), outcome(err)).Inc()
		m.VerifyLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementClaims(kind string) {
	if m != nil {
		m.ClaimsAdded.WithLabelValues(kind).Inc()
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, investoruid.ErrInvalidEncoding):
		return "invalid_encoding"
	case errors.Is(err, investoruid.ErrUnsupportedProofVersion):
		return "unsupported_version"
	case errors.Is(err, investoruid.ErrVerificationFailed):
		return "verification_failed"
	default:
		return "error"
	}
}
