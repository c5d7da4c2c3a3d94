package activity

import (
	"time"

	"github.com/google/uuid"
)

// GateActivity is the append-only decision trail projected from the
// gate pass decision topic. One row per applied transition; the unique
// index makes event redelivery harmless.
type GateActivity struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	GatePassID uuid.UUID `gorm:"type:uuid;not null;index:idx_gate_activities_gatepass;uniqueIndex:uq_gate_activity_transition"`
	PassNumber string    `gorm:"type:varchar(20);not null"`
	Action     string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_gate_activity_transition"`
	ActorID    string    `gorm:"type:varchar(64)"`
	ActorRole  string    `gorm:"type:varchar(30)"`
	Comment    string    `gorm:"type:text"`
	FromStatus string    `gorm:"type:varchar(40);not null"`
	ToStatus   string    `gorm:"type:varchar(40);not null;uniqueIndex:uq_gate_activity_transition"`
	OccurredAt time.Time `gorm:"not null;index:idx_gate_activities_occurred"`
	CreatedAt  time.Time
}
