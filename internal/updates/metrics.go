package updates

import "github.com/prometheus/client_golang/prometheus"

var (
	commitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chaat",
			Subsystem: "updates",
			Name:      "commits_total",
			Help:      "Total committed updates by outcome (delivered|cached)",
		},
		[]string{"outcome"},
	)

	pollTimeoutsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chaat",
			Subsystem: "updates",
			Name:      "poll_timeouts_total",
			Help:      "Long polls that returned without an update",
		},
	)

	cacheEvictionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chaat",
			Subsystem: "updates",
			Name:      "cache_evictions_total",
			Help:      "Updates dropped because a per-key cache hit its limit",
		},
	)

	waitersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chaat",
			Subsystem: "updates",
			Name:      "waiters",
			Help:      "Currently suspended long polls",
		},
	)

	cachedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chaat",
			Subsystem: "updates",
			Name:      "cached_events",
			Help:      "Undelivered updates held in cache pools",
		},
	)
)

func init() {
	prometheus.MustRegister(commitsTotal, pollTimeoutsTotal, cacheEvictionsTotal, waitersGauge, cachedGauge)
}
