package metrics

import "github.com/prometheus/client_golang/prometheus"

// FunnelMetrics exposes counters/histograms for the lead and intake funnels.
type FunnelMetrics struct {
	leadSubmissions   *prometheus.CounterVec
	intakeSubmissions *prometheus.CounterVec
	captchaScore      prometheus.Histogram
	uploadBytes       prometheus.Histogram
}

func NewFunnelMetrics(reg prometheus.Registerer) *FunnelMetrics {
	m := &FunnelMetrics{
		leadSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Lead submissions by pipeline outcome",
		}, []string{"outcome"}),
		intakeSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Client intake submissions by outcome",
		}, []string{"outcome"}),
		captchaScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "studio",
			Subsystem: "leads",
			Name:      "captcha_score",
			Help:      "reCAPTCHA scores observed on lead submissions",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		uploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "studio",
			Subsystem: "uploads",
			Name:      "accepted_bytes",
			Help:      "Sizes of accepted intake asset uploads",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.leadSubmissions, m.intakeSubmissions, m.captchaScore, m.uploadBytes)
	return m
}

func (m *FunnelMetrics) ObserveLead(outcome string) {
	if m == nil {
		return
	}
	m.leadSubmissions.WithLabelValues(outcome).Inc()
}

func (m *FunnelMetrics) ObserveIntake(outcome string) {
	if m == nil {
		return
	}
	m.intakeSubmissions.WithLabelValues(outcome).Inc()
}

func (m *FunnelMetrics) ObserveCaptchaScore(score float64) {
	if m == nil {
		return
	}
	m.captchaScore.Observe(score)
}

func (m *FunnelMetrics) ObserveUploadBytes(size int64) {
	if m == nil {
		return
	}
	m.uploadBytes.Observe(float64(size))
}
