package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

// Metrics holds the console's collectors on a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	logins        *prometheus.CounterVec
	userMutations *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "usermgmt_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "usermgmt_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "usermgmt_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		userMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "usermgmt_user_mutations_total",
			Help: "User create/update/delete calls by operation and result.",
		}, []string{"op", "result"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.logins,
		m.userMutations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveLogin(ok bool) {
	outcome := LoginFailure
	if ok {
		outcome = LoginSuccess
	}
	m.logins.WithLabelValues(outcome).Inc()
}

// ObserveUserMutation counts a create/update/delete and whether it failed.
func (m *Metrics) ObserveUserMutation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.userMutations.WithLabelValues(op, result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
