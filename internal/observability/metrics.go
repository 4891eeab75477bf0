package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UploadsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "facetag",
		Name:      "uploads_processed_total",
		Help:      "Total number of uploaded photos run through face detection",
	})

	FacesDetected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "facetag",
		Name:      "faces_detected_total",
		Help:      "Total number of faces detected by the vision API",
	})

	CropsProduced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "facetag",
		Name:      "crops_produced_total",
		Help:      "Total number of face crops written to the faces bucket",
	})

	CropFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "facetag",
		Name:      "crop_failures_total",
		Help:      "Total number of crop tasks that failed and were nacked",
	})

	BotUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "facetag",
		Name:      "bot_updates_total",
		Help:      "Total number of processed Telegram updates by outcome",
	}, []string{"outcome"})

	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "facetag",
		Name:      "queue_depth",
		Help:      "Number of pending face crop tasks in queue",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "facetag",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
