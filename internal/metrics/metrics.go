// Package metrics holds the Prometheus collectors of the auth server.
// A nil *Metrics is valid and records nothing, so components can be built
// without a registry in tests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Outcome labels.
const (
	ResultSuccess     = "success"
	ResultDuplicate   = "duplicate"
	ResultInvalid     = "invalid"
	ResultRejected    = "rejected"
	ResultRevoked     = "revoked"
	ResultUnavailable = "unavailable"
	ResultError       = "error"
)

type Metrics struct {
	RegistrationsTotal *prometheus.CounterVec
	LoginsTotal        *prometheus.CounterVec
	GateDecisionsTotal *prometheus.CounterVec
	RevocationsTotal   prometheus.Counter
	PurgedTotal        prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "projecthub_registrations_total",
				Help: "Registration attempts by result",
			},
			[]string{"result"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "projecthub_logins_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		GateDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "projecthub_gate_decisions_total",
				Help: "Session gate decisions by result",
			},
			[]string{"result"},
		),
		RevocationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projecthub_revocations_total",
			Help: "Tokens revoked by logout",
		}),
		PurgedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "projecthub_revocations_purged_total",
			Help: "Expired revocation entries removed by the janitor",
		}),
	}

	reg.MustRegister(m.RegistrationsTotal)
	reg.MustRegister(m.LoginsTotal)
	reg.MustRegister(m.GateDecisionsTotal)
	reg.MustRegister(m.RevocationsTotal)
	reg.MustRegister(m.PurgedTotal)

	return m
}

// NewRegistry returns a registry with the Go and process collectors plus
// the auth metrics.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg, NewMetrics(reg)
}

func (m *Metrics) Registration(result string) {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) GateDecision(result string) {
	if m == nil {
		return
	}
	m.GateDecisionsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) Revoked() {
	if m == nil {
		return
	}
	m.RevocationsTotal.Inc()
}

func (m *Metrics) Purged(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.PurgedTotal.Add(float64(n))
}
