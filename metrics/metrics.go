// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "verivote"

// Metrics owns a private registry so several servers can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	steps       *prometheus.CounterVec
	otpFailures prometheus.Counter
	votes       *prometheus.CounterVec
	resets      prometheus.Counter
}

// New registers all collectors. activeSessions is sampled on every scrape.
func New(activeSessions func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wizard_steps_completed_total",
			Help:      "Verification steps completed, by step left.",
		}, []string{"step"}),
		otpFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_failures_total",
			Help:      "OTP codes entered that did not match.",
		}),
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_cast_total",
			Help:      "Votes recorded since start or last reset, by candidate.",
		}, []string{"candidate"}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "election_resets_total",
			Help:      "Administrative resets.",
		}),
	}

	m.registry.MustRegister(
		m.steps,
		m.otpFailures,
		m.votes,
		m.resets,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Voter sessions currently held in memory.",
		}, func() float64 { return float64(activeSessions()) }),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) StepCompleted(step string) {
	m.steps.WithLabelValues(step).Inc()
}

func (m *Metrics) OTPFailed() {
	m.otpFailures.Inc()
}

func (m *Metrics) VoteCast(candidateID string) {
	m.votes.WithLabelValues(candidateID).Inc()
}

func (m *Metrics) ElectionReset() {
	m.resets.Inc()
	m.votes.Reset()
}

// Handler serves the Prometheus text exposition
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
