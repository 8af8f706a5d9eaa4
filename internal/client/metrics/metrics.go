// Package metrics records per-request client metrics on a private
// Prometheus registry. Nothing is served over HTTP; the diag command prints
// a snapshot.
package metrics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "docproc_client"

// Recorder implements client.Observer.
type Recorder struct {
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Latency of backend API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Backend API requests by outcome.",
		}, []string{"method", "route", "status"}),
	}
	r.registry.MustRegister(r.duration, r.total)
	return r
}

func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	code := statusLabel(status)
	r.duration.WithLabelValues(method, route, code).Observe(elapsed.Seconds())
	r.total.WithLabelValues(method, route, code).Inc()
}

func statusLabel(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}

// Snapshot renders every series as "name{labels} value", sorted. Histograms
// are reduced to their _count and _sum.
func (r *Recorder) Snapshot() ([]string, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			pairs := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				pairs = append(pairs, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			labels := "{" + strings.Join(pairs, ",") + "}"

			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s%s %g", mf.GetName(), labels, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				lines = append(lines,
					fmt.Sprintf("%s_count%s %d", mf.GetName(), labels, h.GetSampleCount()),
					fmt.Sprintf("%s_sum%s %.6f", mf.GetName(), labels, h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)
	return lines, nil
}
