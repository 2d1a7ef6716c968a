package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "attendance_bot"

// Metrics aggregates the bot counters on a private registry so tests can
// instantiate it repeatedly.
type Metrics struct {
	registry *prometheus.Registry

	UpdatesTotal   prometheus.Counter
	CommandsTotal  *prometheus.CounterVec
	CallbacksTotal *prometheus.CounterVec
	MarksTotal     prometheus.Counter
	ReportsTotal   prometheus.Counter
	ErrorsTotal    prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		UpdatesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Telegram updates consumed from the polling channel.",
		}),
		CommandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Bot commands handled, by command name.",
		}, []string{"command"}),
		CallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "callbacks_total",
			Help:      "Inline keyboard callbacks handled, by action prefix.",
		}, []string{"action"}),
		MarksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "marks_total",
			Help:      "Attendance toggles applied.",
		}),
		ReportsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Attendance reports generated and sent.",
		}),
		ErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Errors surfaced while handling updates.",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
