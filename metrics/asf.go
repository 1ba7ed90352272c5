// Copyright (C) 2020-2026, ETRID Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import "github.com/prometheus/client_golang/prometheus"

// ASF bundles the Prometheus collectors every consensus component reports
// against, following the teacher's Metrics{Registry} wrapper pattern.
type ASF struct {
	*Metrics

	CheckpointsDetected   prometheus.Counter
	CertificatesFormed    prometheus.Counter
	SignaturesCollected   prometheus.Counter
	SignaturesRejected    *prometheus.CounterVec
	QuorumLatencySeconds  prometheus.Histogram
	CommitteeRotations    prometheus.Counter
	SlotDurationMS        prometheus.Gauge
	ImplicitFinalizations prometheus.Counter
	ByzantineReports      prometheus.Counter
}

// NewASF constructs and registers the ASF metric set. Registration errors
// from a double-register (e.g. in tests that share a registry) are ignored
// the way the teacher's averager constructors tolerate registration races.
func NewASF(reg prometheus.Registerer) *ASF {
	m := &ASF{Metrics: NewMetrics(reg)}

	m.CheckpointsDetected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "asf_checkpoints_detected_total",
		Help: "Total number of blocks detected as guaranteed or opportunity checkpoints.",
	})
	m.CertificatesFormed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "asf_certificates_formed_total",
		Help: "Total number of checkpoint certificates that reached quorum.",
	})
	m.SignaturesCollected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "asf_signatures_collected_total",
		Help: "Total number of checkpoint signatures accepted by the collector.",
	})
	m.SignaturesRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "asf_signatures_rejected_total",
		Help: "Checkpoint signatures rejected, labeled by typed error kind.",
	}, []string{"reason"})
	m.QuorumLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "asf_quorum_latency_seconds",
		Help:    "Time from first signature to certificate formation for a checkpoint.",
		Buckets: prometheus.DefBuckets,
	})
	m.CommitteeRotations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "asf_committee_rotations_total",
		Help: "Total number of committee rotations performed at epoch boundaries.",
	})
	m.SlotDurationMS = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "asf_slot_duration_ms",
		Help: "Current adaptive slot duration in milliseconds.",
	})
	m.ImplicitFinalizations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "asf_implicit_finalizations_total",
		Help: "Total number of blocks finalized by the implicit-finality monitor.",
	})
	m.ByzantineReports = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "asf_byzantine_reports_total",
		Help: "Total number of equivocation or missed-checkpoint reports recorded.",
	})

	for _, c := range []prometheus.Collector{
		m.CheckpointsDetected, m.CertificatesFormed, m.SignaturesCollected,
		m.SignaturesRejected, m.QuorumLatencySeconds, m.CommitteeRotations,
		m.SlotDurationMS, m.ImplicitFinalizations, m.ByzantineReports,
	} {
		_ = m.Register(c) // best-effort; a shared registry may already have these
	}

	return m
}
