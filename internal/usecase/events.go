package usecase

import (
	"context"
	"time"
)

const (
	EventTeamRegistered   = "team.registered"
	EventResultRecorded   = "game.result_recorded"
	EventBracketGenerated = "bracket.generated"
	EventBracketAdvanced  = "bracket.advanced"
	EventScheduleAssigned = "schedule.assigned"
	EventScheduleCleared  = "schedule.cleared"
	EventSchedulePlanned  = "schedule.planned"
)

// Event is a tournament change pushed to live viewers and outbound webhooks.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}
