package requester

import (
	"time"

	"github.com/google/uuid"

	"go-gatepass/internal/domain"
)

const (
	KindStudent = domain.RoleStudent
	KindStaff   = domain.RoleStaff
	KindHOD     = domain.RoleHOD

	AccommodationHosteller  = "HOSTELLER"
	AccommodationDayScholar = "DAY_SCHOLAR"
)

// Requester is the directory record a gate pass points back to. Kind is the
// discriminator; Accommodation is only meaningful for students.
type Requester struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind          string    `gorm:"type:varchar(20);not null;index"`
	FullName      string    `gorm:"type:varchar(255);not null"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex:uq_requester_email;not null"`
	DepartmentID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Accommodation *string   `gorm:"type:varchar(20)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsHosteller reports whether the hostel warden stage applies.
func (r *Requester) IsHosteller() bool {
	return r.Kind == KindStudent &&
		r.Accommodation != nil &&
		*r.Accommodation == AccommodationHosteller
}
