package prom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"victorygoals/internal/domain/victory"
)

// Recorder exports goal metrics as Prometheus collectors registered on reg.
type Recorder struct {
	transitions *prometheus.CounterVec
	events      *prometheus.CounterVec
	failures    prometheus.Counter
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "victory_goal_transitions_total",
			Help: "Goal state transitions by goal and target state",
		}, []string{"goal", "state"}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "victory_events_fired_total",
			Help: "Game events delivered to goals by event name",
		}, []string{"event"}),
		failures: factory.NewCounter(prometheus.CounterOpts{
			Name: "victory_transition_store_failures_total",
			Help: "Failed writes of goal transitions",
		}),
	}
}

func (r *Recorder) RecordTransition(goal string, to victory.State) {
	r.transitions.WithLabelValues(goal, to.String()).Inc()
}

func (r *Recorder) RecordEvent(name victory.EventName) {
	r.events.WithLabelValues(string(name)).Inc()
}

func (r *Recorder) RecordFailure() {
	r.failures.Inc()
}
