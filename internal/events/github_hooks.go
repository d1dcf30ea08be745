package events

import "commitbot/internal/models"

// Targets of webhook ingestion events.
const (
	targetAggregate = "aggregate"
	targetDelivery  = "delivery"
)

// PushIngested records a push merged into the aggregate of repo/username.
func (e *Emitter) PushIngested(deliveryID string, rec models.PushRecord) {
	if e == nil {
		return
	}

	evt := models.Event{
		Action: "github.push.ingested",

		ActorRole: ActorGitHub,
		ActorID:   deliveryID,

		TargetType: targetAggregate,
		TargetID:   rec.RepoFullName + "@" + rec.Username,

		Props: map[string]any{
			"repo_full_name": rec.RepoFullName,
			"username":       rec.Username,
			"accepted":       rec.NumCommits,
			"discarded":      rec.Discarded,
		},
		Key: deliveryID,
	}

	e.Emit(evt)
}

// PushRejected records a delivery that could not be ingested.
func (e *Emitter) PushRejected(deliveryID string, eventType string, err error) {
	if e == nil {
		return
	}

	evt := models.Event{
		Action: "github.push.rejected",

		ActorRole: ActorGitHub,
		ActorID:   deliveryID,

		TargetType: targetDelivery,
		TargetID:   deliveryID,

		Props: map[string]any{
			"event": eventType,
			"error": err.Error(),
		},
		Key: deliveryID,
	}

	e.Emit(evt)
}
