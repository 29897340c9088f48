// Copyright 2025 Certen Protocol
//
// Optional Prometheus instrumentation for envelope building and
// verification. Nothing in pkg/exchange, pkg/jws, or pkg/reader
// depends on this package or records into it; a caller that wants
// metrics constructs a Collector and calls its Record methods around
// its own build and verify calls.

package pptelemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the counters and histograms emitted by a builder or
// reader. The zero value is not usable; construct one with New.
type Collector struct {
	envelopesBuilt     *prometheus.CounterVec
	envelopesRead      *prometheus.CounterVec
	signaturesVerified *prometheus.CounterVec
	attestationLookups *prometheus.CounterVec
	verifyDuration     prometheus.Histogram
}

// New creates a Collector and registers its metrics with reg. Passing
// a fresh prometheus.NewRegistry() keeps proofpack's metrics isolated
// from the default global registry; passing prometheus.DefaultRegisterer
// exposes them alongside the rest of a process's metrics.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		envelopesBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proofpack_envelopes_built_total",
			Help: "Signed envelopes produced by an EnvelopeBuilder, by signing algorithm.",
		}, []string{"algorithm"}),
		envelopesRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proofpack_envelopes_read_total",
			Help: "Envelopes passed through Reader.Verify, by outcome.",
		}, []string{"outcome"}),
		signaturesVerified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proofpack_signatures_verified_total",
			Help: "Individual signature verification attempts, by algorithm and result.",
		}, []string{"algorithm", "result"}),
		attestationLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proofpack_attestation_lookups_total",
			Help: "Attestation verifier invocations, by service id and result.",
		}, []string{"service", "result"}),
		verifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "proofpack_verify_duration_seconds",
			Help:    "Wall-clock time spent in one Reader.Verify call.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),
	}
	reg.MustRegister(
		c.envelopesBuilt,
		c.envelopesRead,
		c.signaturesVerified,
		c.attestationLookups,
		c.verifyDuration,
	)
	return c
}

// RecordEnvelopeBuilt records one envelope produced for algorithm.
func (c *Collector) RecordEnvelopeBuilt(algorithm string) {
	if c == nil {
		return
	}
	c.envelopesBuilt.WithLabelValues(algorithm).Inc()
}

// RecordEnvelopeRead records one Reader.Verify call outcome, e.g.
// "valid", "invalid-attestation", "replayed-nonce".
func (c *Collector) RecordEnvelopeRead(outcome string) {
	if c == nil {
		return
	}
	c.envelopesRead.WithLabelValues(outcome).Inc()
}

// RecordSignatureVerification records one signature check, result
// being "verified", "failed", or "unresolved".
func (c *Collector) RecordSignatureVerification(algorithm, result string) {
	if c == nil {
		return
	}
	c.signaturesVerified.WithLabelValues(algorithm, result).Inc()
}

// RecordAttestationLookup records one attestation.Verifier.Verify
// call, result being "verified" or "failed".
func (c *Collector) RecordAttestationLookup(service, result string) {
	if c == nil {
		return
	}
	c.attestationLookups.WithLabelValues(service, result).Inc()
}

// Timer measures one Reader.Verify call and reports it into a
// Collector's verifyDuration histogram on Stop.
type Timer struct {
	collector *Collector
	start     time.Time
}

// NewTimer starts timing. c may be nil, in which case Stop is a no-op.
func NewTimer(c *Collector) Timer {
	return Timer{collector: c, start: time.Now()}
}

// Stop records the elapsed duration.
func (t Timer) Stop() {
	if t.collector == nil {
		return
	}
	t.collector.verifyDuration.Observe(time.Since(t.start).Seconds())
}
