package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the surface the services and the sweeper report through.
type Recorder interface {
	RecordHTTPRequest(method, path string, status int, latency time.Duration)
	RecordRegistration(role, state string)
	RecordUpload(kind string)
	RecordClaim(outcome string)
	RecordContactMail(success bool)
	RecordSweptUploads(count int)
}

// Collector implements Recorder on a Prometheus registry.
type Collector struct {
	httpRequests  *prometheus.CounterVec
	httpLatency   prometheus.Histogram
	registrations *prometheus.CounterVec
	uploads       *prometheus.CounterVec
	claims        *prometheus.CounterVec
	contactMails  *prometheus.CounterVec
	sweptUploads  prometheus.Counter
}

// NewCollector registers the portal metrics on the given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "path", "status"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_registrations_total",
			Help: "Registration attempts by role and final state.",
		}, []string{"role", "state"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_profile_uploads_total",
			Help: "Profile image uploads by entity kind.",
		}, []string{"kind"}),
		claims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_image_claims_total",
			Help: "Provisional image claims by outcome.",
		}, []string{"outcome"}),
		contactMails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_contact_mails_total",
			Help: "Contact-form mails by delivery result.",
		}, []string{"result"}),
		sweptUploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_swept_uploads_total",
			Help: "Expired provisional uploads removed by the sweeper.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.registrations,
		c.uploads,
		c.claims,
		c.contactMails,
		c.sweptUploads,
	)

	return c
}

func (c *Collector) RecordHTTPRequest(method, path string, status int, latency time.Duration) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpLatency.Observe(latency.Seconds())
}

func (c *Collector) RecordRegistration(role, state string) {
	c.registrations.WithLabelValues(role, state).Inc()
}

func (c *Collector) RecordUpload(kind string) {
	c.uploads.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordClaim(outcome string) {
	c.claims.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordContactMail(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	c.contactMails.WithLabelValues(result).Inc()
}

func (c *Collector) RecordSweptUploads(count int) {
	c.sweptUploads.Add(float64(count))
}

// Handler exposes the registry in Prometheus scrape format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
