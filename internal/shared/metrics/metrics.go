package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	pipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cargo_pipeline_runs_total",
			Help: "Total pipeline runs by outcome",
		},
		[]string{"pipeline", "outcome"},
	)

	pipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cargo_pipeline_duration_seconds",
			Help:    "Pipeline duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"pipeline"},
	)

	toolRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cargo_external_tool_runs_total",
			Help: "External converter invocations by outcome",
		},
		[]string{"tool", "outcome"},
	)

	workerJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cargo_worker_jobs_total",
			Help: "Queued conversion jobs by result",
		},
		[]string{"result"},
	)
)

// Worker job results.
const (
	JobReceived      = "received"
	JobCompleted     = "completed"
	JobFailed        = "failed"
	JobUnrecoverable = "deleted_unrecoverable"
)

// IncWorkerJob counts a queued job transition.
func IncWorkerJob(result string) {
	workerJobs.WithLabelValues(result).Inc()
}

// ObservePipeline records one finished pipeline run.
func ObservePipeline(pipeline string, started time.Time, err error) {
	pipelineRuns.WithLabelValues(pipeline, Outcome(err)).Inc()
	elapsed := time.Since(started).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	pipelineDuration.WithLabelValues(pipeline).Observe(elapsed)
}

// IncToolRun counts one external tool invocation.
func IncToolRun(tool string, err error) {
	toolRuns.WithLabelValues(tool, Outcome(err)).Inc()
}

func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
