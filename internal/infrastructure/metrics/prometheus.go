package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"eventbot/internal/ports/output"
)

const namespace = "eventbot"

var _ output.Metrics = (*Prometheus)(nil)

// Prometheus records the bot's counters on a registry.
type Prometheus struct {
	eventsCreated      prometheus.Counter
	eventsDeleted      prometheus.Counter
	reactions          *prometheus.CounterVec
	participantChanges *prometheus.CounterVec
	remindersScheduled prometheus.Gauge
	remindersSent      prometheus.Counter
	remindersFailed    prometheus.Counter
}

// NewPrometheus registers the collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		eventsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_created_total",
			Help:      "Total number of events created",
		}),
		eventsDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_deleted_total",
			Help:      "Total number of events deleted",
		}),
		reactions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reactions_total",
				Help:      "Total number of handled announcement reactions",
			},
			[]string{"emoji", "action"},
		),
		participantChanges: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "participant_changes_total",
				Help:      "Total number of participant rows added or removed",
			},
			[]string{"change"},
		),
		remindersScheduled: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reminders_scheduled",
			Help:      "Number of reminder jobs currently scheduled",
		}),
		remindersSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Total number of reminders delivered",
		}),
		remindersFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_failed_total",
			Help:      "Total number of reminder jobs that failed",
		}),
	}
}

func (p *Prometheus) EventCreated() { p.eventsCreated.Inc() }

func (p *Prometheus) EventDeleted() { p.eventsDeleted.Inc() }

func (p *Prometheus) ReactionHandled(emoji string, added bool) {
	action := "remove"
	if added {
		action = "add"
	}
	p.reactions.WithLabelValues(emoji, action).Inc()
}

func (p *Prometheus) ParticipantChanged(change string) {
	p.participantChanges.WithLabelValues(change).Inc()
}

func (p *Prometheus) RemindersScheduled(n int) { p.remindersScheduled.Set(float64(n)) }

func (p *Prometheus) ReminderSent() { p.remindersSent.Inc() }

func (p *Prometheus) ReminderFailed() { p.remindersFailed.Inc() }
