// Package audit emits one structured event per successful state-changing
// operation: actor, action, affected entity and free-text detail.
package audit

import (
	"fmt"
	"log"

	"printhub/internal/models"
	"printhub/internal/repositories"
)

// Recorder is the audit sink the services emit to.
type Recorder interface {
	Record(actorID *uint, action, entityType, entityID, details string)
}

type recorder struct {
	repo repositories.AuditRepository
}

func NewRecorder(repo repositories.AuditRepository) Recorder {
	return &recorder{repo: repo}
}

// Record writes the event. A failed write is logged and swallowed; audit
// persistence must never roll back the mutation it describes.
func (r *recorder) Record(actorID *uint, action, entityType, entityID, details string) {
	entry := &models.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if err := r.repo.Create(entry); err != nil {
		log.Printf("audit: failed to record %s on %s %s: %v", action, entityType, entityID, err)
	}
}

// Detailf formats a detail string for Record.
func Detailf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

// NoopRecorder discards all events, for tests.
type NoopRecorder struct{}

func (NoopRecorder) Record(actorID *uint, action, entityType, entityID, details string) {}
