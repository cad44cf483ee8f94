package models

import "time"

// AuditLog is one structured event emitted after a successful state-changing
// operation: who did what to which entity, and when.
type AuditLog struct {
	ID uint `gorm:"primarykey"`

	ActorID *uint `gorm:"index"`
	Actor   *User `gorm:"foreignKey:ActorID"`

	Action     string `gorm:"size:100;not null;index"`
	EntityType string `gorm:"size:50"`
	EntityID   string `gorm:"size:100"`
	Details    string
	IPAddress  string

	CreatedAt time.Time `gorm:"index"`
}
