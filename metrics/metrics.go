package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feerouter_cycles_total",
			Help: "Total number of distribution cycles by status",
		},
		[]string{"status"},
	)

	PagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feerouter_pages_total",
			Help: "Total number of processed pages by status",
		},
		[]string{"status"},
	)

	DistributedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feerouter_distributed_lamports_total",
			Help: "Total lamports paid out by recipient kind",
		},
		[]string{"recipient"},
	)

	CarryOverLamports = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feerouter_carry_over_lamports",
			Help: "Carry-over lamports deferred to the next cycle",
		},
	)

	ClaimDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feerouter_claim_duration_seconds",
			Help:    "Duration of on-chain fee claims",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 0.1s to ~51s
		},
	)
)
