package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters for the subscription and SMS flows. All observe
// methods are nil-safe so callers can run without a registry in tests.
type Metrics struct {
	subscribesTotal *prometheus.CounterVec
	smsSendTotal    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		subscribesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launchapi",
			Subsystem: "subscriptions",
			Name:      "subscribe_total",
			Help:      "Total subscribe attempts by outcome",
		}, []string{"outcome"}),
		smsSendTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launchapi",
			Subsystem: "sms",
			Name:      "send_total",
			Help:      "Total outbound SMS sends by flow and result",
		}, []string{"flow", "result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.subscribesTotal, m.smsSendTotal)
	return m
}

// ObserveSubscribe records a subscribe attempt.
// outcome: created | duplicate | invalid | error.
func (m *Metrics) ObserveSubscribe(outcome string) {
	if m == nil {
		return
	}
	m.subscribesTotal.WithLabelValues(outcome).Inc()
}

// ObserveSend records an outbound SMS.
// flow: welcome | direct | broadcast; result: ok | held | failed.
func (m *Metrics) ObserveSend(flow, result string) {
	if m == nil {
		return
	}
	m.smsSendTotal.WithLabelValues(flow, result).Inc()
}
