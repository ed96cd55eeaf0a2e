package utils

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PrometheusIngestStarted  *prometheus.CounterVec
	PrometheusIngestFinished *prometheus.CounterVec
	PrometheusRowsIngested   *prometheus.CounterVec
	PrometheusChunksIngested *prometheus.CounterVec

	PrometheusLastIngestDuration *prometheus.GaugeVec
	PrometheusLastIngestRows     *prometheus.GaugeVec
)

func StartPrometheus(port string) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		err := http.ListenAndServe(":"+port, nil)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("prometheus start error")
		}
	}()
	logger.Info().Str("port", port).Msg("Started prometheus")
}

func init() {
	var labelNames = []string{"connection"}

	PrometheusIngestStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_started",
	}, labelNames)

	PrometheusIngestFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_finished",
	}, labelNames)

	PrometheusRowsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rows_ingested",
	}, labelNames)

	PrometheusChunksIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chunks_ingested",
	}, labelNames)

	PrometheusLastIngestDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "last_ingest_duration",
	}, labelNames)

	PrometheusLastIngestRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "last_ingest_rows",
	}, labelNames)
}
