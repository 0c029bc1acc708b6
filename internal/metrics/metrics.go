package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"net/http"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_finder_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	FetchesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_finder_feed_fetches_total",
			Help: "Total number of job feed fetches by result.",
		},
		[]string{"status"},
	)
	FetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "job_finder_feed_fetch_duration_seconds",
			Help:    "Duration of each job feed round trip in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
	SaveTogglesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_finder_save_toggles_total",
			Help: "Total number of saved-set mutations by outcome.",
		},
		[]string{"outcome"},
	)
	ApplicationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_finder_applications_total",
			Help: "Total number of application submissions by result.",
		},
		[]string{"result"},
	)
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "job_finder_active_sessions",
			Help: "Number of chat sessions currently held in memory.",
		},
	)
)

func StartMetricsServer(listenAddr string) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(FetchesCounter)
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(SaveTogglesCounter)
	prometheus.MustRegister(ApplicationsCounter)
	prometheus.MustRegister(ActiveSessions)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(listenAddr, mux))
	}()
}
