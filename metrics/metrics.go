// Package metrics registers Prometheus counters for the API's domain events
// and serves the scrape endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CheckIns counts successful first check-ins per day per user.
	CheckIns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "meow_checkins_total",
		Help: "Total number of recorded daily check-ins.",
	})
	// Registrations counts created accounts.
	Registrations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "meow_registrations_total",
		Help: "Total number of registered accounts.",
	})
	// Logins counts successful logins.
	Logins = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "meow_logins_total",
		Help: "Total number of successful logins.",
	})
	// Uploads counts stored media files by kind (pic, avatar, audio).
	Uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "meow_uploads_total",
		Help: "Total number of stored uploads by kind.",
	}, []string{"kind"})
)

func init() {
	prometheus.MustRegister(CheckIns, Registrations, Logins, Uploads)
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler() http.Handler {
	return promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{})
}
