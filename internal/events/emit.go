package events

import (
	"context"
	"time"

	"commitbot/internal/models"
)

const ActorGitHub = "github"

// Emit stamps evt and queues it. When the buffer is full the event is
// written synchronously instead.
func (e *Emitter) Emit(evt models.Event) {
	if e == nil {
		return
	}

	evt.TimeStamp = time.Now().UTC()
	if evt.Props == nil {
		evt.Props = map[string]any{}
	}
	evt.Props["deployment"] = e.deployment

	e.mu.RLock()
	defer e.mu.RUnlock()

	select {
	case <-e.closed:
		return
	default:
	}

	select {
	case e.buf <- evt:
	default:
		ctx, cancel := context.WithTimeout(
			context.Background(),
			2*time.Second,
		)
		defer cancel()

		if err := e.sink.InsertOne(ctx, evt); err != nil {
			e.log.Warn().Err(err).Str("action", evt.Action).Msg("failed to write event")
		}
	}
}
