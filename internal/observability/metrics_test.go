package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestLinkCollectorRecordsActivity(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewLinkCollector(reg)
	if err != nil {
		t.Fatalf("NewLinkCollector: %v", err)
	}

	collector.RecordTransmission()
	collector.RecordTransmission()
	collector.RecordDelivery(false)
	collector.RecordDelivery(true)
	collector.RecordDelivery(true)
	collector.ObserveIrradiance(3.1e-5)
	collector.SetPendingEvents(7)

	if got := testutil.ToFloat64(collector.TransmissionsTotal); got != 2 {
		t.Fatalf("link_transmissions_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.DeliveriesTotal.WithLabelValues("intact")); got != 1 {
		t.Fatalf("link_deliveries_total{result=intact} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.DeliveriesTotal.WithLabelValues("corrupted")); got != 2 {
		t.Fatalf("link_deliveries_total{result=corrupted} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.PendingEvents); got != 7 {
		t.Fatalf("link_pending_events = %v, want 7", got)
	}

	if count := histogramSampleCount(t, reg, "link_mean_irradiance_w_per_m2", nil); count != 1 {
		t.Fatalf("link_mean_irradiance_w_per_m2 sample_count = %d, want 1", count)
	}
}

func TestLinkCollectorTolerantOfReregistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewLinkCollector(reg)
	if err != nil {
		t.Fatalf("first NewLinkCollector: %v", err)
	}
	second, err := NewLinkCollector(reg)
	if err != nil {
		t.Fatalf("second NewLinkCollector: %v", err)
	}

	first.RecordTransmission()
	second.RecordTransmission()

	// Both collectors must share the registered counter.
	if got := testutil.ToFloat64(second.TransmissionsTotal); got != 2 {
		t.Fatalf("shared link_transmissions_total = %v, want 2", got)
	}
}

func TestLinkCollectorNilReceiverIsSafe(t *testing.T) {
	var collector *LinkCollector
	collector.RecordTransmission()
	collector.RecordDelivery(true)
	collector.ObserveIrradiance(1e-6)
	collector.SetPendingEvents(3)
	if g := collector.Gatherer(); g != nil {
		t.Fatalf("nil collector gatherer = %v, want nil", g)
	}
}

func TestMetricsHandlerExposesLinkSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewLinkCollector(reg)
	if err != nil {
		t.Fatalf("NewLinkCollector: %v", err)
	}
	collector.RecordTransmission()
	collector.RecordDelivery(false)
	collector.ObserveIrradiance(2.2e-6)
	collector.SetPendingEvents(1)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"link_transmissions_total",
		"link_deliveries_total",
		"link_mean_irradiance_w_per_m2",
		"link_pending_events",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
