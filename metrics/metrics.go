package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "artisan",
		Subsystem: "loader",
		Name:      "loads_total",
		Help:      "Auction list loads by result",
	}, []string{"result"})

	LoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "artisan",
		Subsystem: "loader",
		Name:      "load_duration_seconds",
		Help:      "Time spent reading the index and every auction record",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	RecordsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "artisan",
		Subsystem: "loader",
		Name:      "records_skipped_total",
		Help:      "Auction records left out of the list",
	}, []string{"reason"})

	AuctionsCached = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "artisan",
		Subsystem: "loader",
		Name:      "auctions_cached",
		Help:      "Auctions held in the in-memory list",
	})

	WritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "artisan",
		Subsystem: "market",
		Name:      "writes_total",
		Help:      "Create and close operations by result",
	}, []string{"op", "result"})

	RevealsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "artisan",
		Subsystem: "market",
		Name:      "reveals_total",
		Help:      "Bid disclosure attempts by result",
	}, []string{"result"})
)

const (
	ResultOK          = "ok"
	ResultError       = "error"
	ResultRejected    = "rejected"
	ResultUnavailable = "unavailable"
)
