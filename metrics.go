package hitproxy

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Route label values of hitproxy_hits_total.
const (
	routeSDK      = "sdk"
	routeProxy    = "proxy"
	routeFiltered = "filtered"
	routeInvalid  = "invalid"
)

type metrics struct {
	hits *prometheus.CounterVec
}

// newMetrics registers the proxy counters on reg. A nil reg disables
// metrics. Proxies sharing a registerer share the collector.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}

	hits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hitproxy",
		Name:      "hits_total",
		Help:      "Hits handled by the proxy, by route: sdk (forwarded), proxy (recorded as custom event), filtered (hit type not allowed), invalid (missing hit type).",
	}, []string{"route"})

	if err := reg.Register(hits); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		hits = existing
	}

	for _, route := range []string{routeSDK, routeProxy, routeFiltered, routeInvalid} {
		hits.WithLabelValues(route).Add(0)
	}
	return &metrics{hits: hits}, nil
}

func (m *metrics) observe(route string) {
	if m == nil {
		return
	}
	m.hits.WithLabelValues(route).Inc()
}
