package wizard

import (
	"context"
	"time"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/modules/wizard/steps"
)

const EventTurnRecorded = "wizard.turn_recorded"

// EventPublisher is satisfied by redisbus.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

type TurnEvent struct {
	Type        string        `json:"type"`
	EntryID     uint          `json:"entry_id"`
	SessionID   *string       `json:"session_id,omitempty"`
	QuestionKey string        `json:"question_key"`
	AnswerKey   *string       `json:"answer_key,omitempty"`
	Channel     string        `json:"channel"`
	Outcome     steps.Outcome `json:"outcome"`
	At          time.Time     `json:"at"`
}

// publishTurn never fails the turn; errors are logged and counted.
func (u Usecases) publishTurn(ctx context.Context, ev TurnEvent) {
	if u.deps.Events == nil {
		return
	}
	if err := u.deps.Events.Publish(ctx, ev); err != nil {
		u.deps.Metrics.ObserveTurnEvent("error")
		if u.deps.Log != nil {
			u.deps.Log.Warn("turn event publish failed", "entry_id", ev.EntryID, "error", err)
		}
		return
	}
	u.deps.Metrics.ObserveTurnEvent("ok")
}
