package fetch

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK       = "ok"
	outcomeError    = "error"
	outcomeCanceled = "canceled"
)

// Metrics 记录上游请求数与耗时，按资源与结果分组。
// nil *Metrics 合法，所有记录操作为空操作。
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics 创建指标并注册到 reg（reg 为 nil 时不注册）。
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launch_catalog",
			Subsystem: "fetch",
			Name:      "requests_total",
			Help:      "Upstream GET requests by resource and outcome.",
		}, []string{"resource", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "launch_catalog",
			Subsystem: "fetch",
			Name:      "request_duration_seconds",
			Help:      "Upstream GET latency by resource.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.requests, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Requests 返回计数器，供测试读取。
func (m *Metrics) Requests() *prometheus.CounterVec { return m.requests }

func (m *Metrics) observe(path, outcome string, start time.Time) {
	if m == nil {
		return
	}
	res := resourceOf(path)
	m.requests.WithLabelValues(res, outcome).Inc()
	m.duration.WithLabelValues(res).Observe(time.Since(start).Seconds())
}

// resourceOf 取路径中的集合名（如 /v4/launches/5eb8... -> launches），
// 避免把 id 放进标签导致基数膨胀。
func resourceOf(path string) string {
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case ResourceLaunches, ResourceRockets, ResourceLaunchpads, ResourcePayloads:
			return seg
		}
	}
	return "other"
}
