// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "employees"

// Handler serves the default registry in the exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
