package gatepass

import (
	"time"

	"github.com/google/uuid"
)

// GatePass rows are never deleted; the per-stage comment columns double as
// the audit trail and each one is written at most once.
type GatePass struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	PassNumber    string    `gorm:"type:varchar(20);uniqueIndex:uq_gatepass_number;not null"`
	RequesterID   uuid.UUID `gorm:"type:uuid;not null;index:idx_gatepasses_requester"`
	RequesterKind string    `gorm:"type:varchar(20);not null"`
	DepartmentID  uuid.UUID `gorm:"type:uuid;not null;index:idx_gatepasses_status_department"`

	Type        string `gorm:"type:varchar(20);not null;default:'OTHER'"`
	Reason      string `gorm:"type:text;not null"`
	Description string `gorm:"type:text"`

	StartAt time.Time `gorm:"not null"`
	EndAt   time.Time `gorm:"not null"`

	Status string `gorm:"type:varchar(40);not null;index:idx_gatepasses_status_department"`

	StaffComment            *string `gorm:"type:text"`
	HODComment              *string `gorm:"type:text;column:hod_comment"`
	AcademicDirectorComment *string `gorm:"type:text"`
	HostelWardenComment     *string `gorm:"type:text"`
	SecurityComment         *string `gorm:"type:text"`

	CheckoutAt *time.Time
	CheckinAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
