// Package queue defines the audit event payloads exchanged over the message
// broker and the publisher/consumer that move them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent is published whenever an actor performs an auditable operation
// (login, submission, review, export). The database row written by the
// handler is the source of truth; the bus exists so downstream consumers can
// tail activity without querying the primary database.
type AuditEvent struct {
	EventID      string    `json:"event_id"`
	ActorVariant string    `json:"actor_variant"`
	ActorID      uint64    `json:"actor_id"`
	Action       string    `json:"action"`
	Entity       string    `json:"entity"`
	EntityID     uint64    `json:"entity_id"`
	Detail       string    `json:"detail,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewAuditEvent fills in the event id and timestamp.
func NewAuditEvent(actorVariant string, actorID uint64, action, entity string, entityID uint64, detail string) AuditEvent {
	return AuditEvent{
		EventID:      uuid.NewString(),
		ActorVariant: actorVariant,
		ActorID:      actorID,
		Action:       action,
		Entity:       entity,
		EntityID:     entityID,
		Detail:       detail,
		OccurredAt:   time.Now().UTC(),
	}
}
