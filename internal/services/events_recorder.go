package services

import (
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
	"github.com/skillzen/career-api/internal/events"
	"github.com/skillzen/career-api/internal/metrics"
)

// EventsRecorder turns domain events into metrics and log lines.
type EventsRecorder struct {
	bus EventBus.Bus
}

func NewEventsRecorder(bus EventBus.Bus) (*EventsRecorder, error) {
	r := &EventsRecorder{bus: bus}

	if err := bus.Subscribe(events.ResumeAnalyzedTopic, r.onResumeAnalyzed); err != nil {
		return nil, err
	}
	if err := bus.Subscribe(events.APIKeySwitchedTopic, r.onAPIKeySwitched); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *EventsRecorder) Stop() {
	_ = r.bus.Unsubscribe(events.ResumeAnalyzedTopic, r.onResumeAnalyzed)
	_ = r.bus.Unsubscribe(events.APIKeySwitchedTopic, r.onAPIKeySwitched)
}

func (r *EventsRecorder) onResumeAnalyzed(event events.ResumeAnalyzed) {
	metrics.AnalyzedResumesCounter.WithLabelValues(event.Source).Inc()
	metrics.ATSScores.Observe(float64(event.ATSScore))
	log.Infof("resume analyzed by %s, user: %q, ats score: %d", event.Source, event.UserID, event.ATSScore)
}

func (r *EventsRecorder) onAPIKeySwitched(event events.APIKeySwitched) {
	metrics.APIKeySwitchesCounter.Inc()
	log.Warnf("gemini api key %d is active now, reason: %s", event.ActiveIndex, event.Reason)
}
