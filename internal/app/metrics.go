package app

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "tebakkode"

// Event outcomes recorded by the dispatcher.
const (
	outcomeHandled = "handled"
	outcomeIgnored = "ignored"
	outcomeSkipped = "skipped"
	outcomeFailed  = "failed"
)

// Metrics groups the bot's Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	events         *prometheus.CounterVec
	answers        *prometheus.CounterVec
	started        prometheus.Counter
	completed      *prometheus.CounterVec
	droppedFollows prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_total",
			Help:      "Webhook events processed, by event type and outcome.",
		}, []string{"type", "outcome"}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "answers_total",
			Help:      "Quiz answers received, by correctness.",
		}, []string{"correct"}),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "quizzes_started_total",
			Help:      "Quizzes started or restarted.",
		}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "quizzes_completed_total",
			Help:      "Quizzes finished, by result.",
		}, []string{"result"}),
		droppedFollows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "follows_dropped_total",
			Help:      "First-contact events dropped because the profile lookup failed.",
		}),
	}
	reg.MustRegister(m.events, m.answers, m.started, m.completed, m.droppedFollows)
	return m
}

func (m *Metrics) event(eventType, outcome string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(eventType, outcome).Inc()
}

func (m *Metrics) answered(correct bool) {
	if m == nil {
		return
	}
	m.answers.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

func (m *Metrics) quizStarted() {
	if m == nil {
		return
	}
	m.started.Inc()
}

func (m *Metrics) quizCompleted(passed bool) {
	if m == nil {
		return
	}
	result := "failed"
	if passed {
		result = "passed"
	}
	m.completed.WithLabelValues(result).Inc()
}

func (m *Metrics) followDropped() {
	if m == nil {
		return
	}
	m.droppedFollows.Inc()
}
