package api

import (
	"net/http"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/watchkeep/watchkeep/internal/audit"
	"github.com/watchkeep/watchkeep/internal/auth"
	"github.com/watchkeep/watchkeep/internal/metrics"
	"github.com/watchkeep/watchkeep/internal/store"
)

// postMetricExposition ingests a Prometheus text-format body: every
// counter, gauge, and untyped sample becomes one metric point. Histogram
// and summary families are skipped.
func (h *Handler) postMetricExposition(w http.ResponseWriter, r *http.Request) {
	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(r.Body)
	if err != nil {
		metrics.IncIngest("metric", metrics.ResultInvalid)
		jsonErr(w, http.StatusBadRequest, "invalid Prometheus exposition body")
		return
	}

	now := h.now()
	accepted := 0
	for name, family := range families {
		for _, m := range family.Metric {
			value, ok := sampleValue(family.GetType(), m)
			if !ok {
				continue
			}

			ts := now
			if m.GetTimestampMs() > 0 {
				ts = time.UnixMilli(m.GetTimestampMs())
			}
			h.store.AppendMetric(store.MetricPoint{
				Timestamp: ts,
				Name:      name,
				Value:     value,
				Labels:    labelMap(m.Label),
			})
			accepted++
			metrics.IncIngest("metric", metrics.ResultOK)
		}
	}

	principal := auth.PrincipalFromContext(r.Context())
	h.audit.Record(principal.Subject, audit.ActionMetricIngest, "exposition", map[string]any{
		"accepted": accepted,
	})
	jsonResp(w, http.StatusCreated, ExpositionResult{Accepted: accepted})
}

func sampleValue(typ dto.MetricType, m *dto.Metric) (float64, bool) {
	switch typ {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue(), true
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue(), true
	case dto.MetricType_UNTYPED:
		return m.GetUntyped().GetValue(), true
	default:
		return 0, false
	}
}

func labelMap(pairs []*dto.LabelPair) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		out[p.GetName()] = p.GetValue()
	}
	return out
}
