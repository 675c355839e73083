// Package metrics 벤치마크 측정값을 프로메테우스 메트릭으로 모음
package metrics

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rlaau/sortbench/bench"
)

const namespace = "sortbench"

var labels = []string{"algorithm", "scenario", "size"}

// Recorder bench.Observer 구현
type Recorder struct {
	registry  *prometheus.Registry
	trials    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	allocated *prometheus.HistogramVec
}

// NewRecorder 전용 레지스트리에 메트릭 등록
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trials_total",
			Help:      "Number of timed sort trials.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trial_duration_seconds",
			Help:      "Wall-clock time of one sort trial.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, labels),
		allocated: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trial_allocated_bytes",
			Help:      "Heap bytes allocated during one sort trial.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		}, labels),
	}
	r.registry.MustRegister(r.trials, r.duration, r.allocated)
	return r
}

var _ bench.Observer = (*Recorder)(nil)

// ObserveTrial 측정 1회 기록
func (r *Recorder) ObserveTrial(algorithm string, sc bench.Scenario, size int, t bench.Trial) {
	lv := []string{algorithm, string(sc), strconv.Itoa(size)}
	r.trials.WithLabelValues(lv...).Inc()
	r.duration.WithLabelValues(lv...).Observe(t.Duration.Seconds())
	r.allocated.WithLabelValues(lv...).Observe(float64(t.AllocBytes))
}

// Gatherer 등록된 메트릭 조회용
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile node_exporter textfile 형식으로 저장
func (r *Recorder) WriteTextfile(path string) error {
	return errors.Wrapf(prometheus.WriteToTextfile(path, r.registry), "writing metrics to %s", path)
}
