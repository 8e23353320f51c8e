package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LinkCollector bundles Prometheus metrics for link activity and provides a
// ready-to-serve /metrics handler. It satisfies core.LinkMetricsRecorder so
// the channel can drive the counters directly.
type LinkCollector struct {
	gatherer prometheus.Gatherer

	TransmissionsTotal prometheus.Counter
	DeliveriesTotal    *prometheus.CounterVec
	ReceivedIrradiance prometheus.Histogram
	PendingEvents      prometheus.Gauge
}

// NewLinkCollector registers link Prometheus metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewLinkCollector(reg prometheus.Registerer) (*LinkCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	transmissions, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "link_transmissions_total",
		Help: "Total number of packets sent into the channel.",
	}), "link_transmissions_total")
	if err != nil {
		return nil, err
	}

	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "link_deliveries_total",
		Help: "Total number of arrival events, labeled by outcome.",
	}, []string{"result"})
	deliveries, err = registerCounterVec(reg, deliveries, "link_deliveries_total")
	if err != nil {
		return nil, err
	}

	irradiance, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "link_mean_irradiance_w_per_m2",
		Help:    "Mean receiver-plane irradiance carried by arriving signals.",
		Buckets: prometheus.ExponentialBuckets(1e-8, 10, 10),
	}), "link_mean_irradiance_w_per_m2")
	if err != nil {
		return nil, err
	}

	pending, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "link_pending_events",
		Help: "Number of delivery events waiting in the scheduler queue.",
	}), "link_pending_events")
	if err != nil {
		return nil, err
	}

	return &LinkCollector{
		gatherer:           gatherer,
		TransmissionsTotal: transmissions,
		DeliveriesTotal:    deliveries,
		ReceivedIrradiance: irradiance,
		PendingEvents:      pending,
	}, nil
}

// RecordTransmission counts one send into the channel.
func (c *LinkCollector) RecordTransmission() {
	if c == nil || c.TransmissionsTotal == nil {
		return
	}
	c.TransmissionsTotal.Inc()
}

// RecordDelivery counts one arrival, bucketed by outcome.
func (c *LinkCollector) RecordDelivery(corrupted bool) {
	if c == nil || c.DeliveriesTotal == nil {
		return
	}
	result := "intact"
	if corrupted {
		result = "corrupted"
	}
	c.DeliveriesTotal.WithLabelValues(result).Inc()
}

// ObserveIrradiance records a mean-irradiance sample from an arrival.
func (c *LinkCollector) ObserveIrradiance(wPerM2 float64) {
	if c == nil || c.ReceivedIrradiance == nil {
		return
	}
	c.ReceivedIrradiance.Observe(wPerM2)
}

// SetPendingEvents updates the scheduler queue depth gauge.
func (c *LinkCollector) SetPendingEvents(n int) {
	if c == nil || c.PendingEvents == nil {
		return
	}
	c.PendingEvents.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *LinkCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *LinkCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
