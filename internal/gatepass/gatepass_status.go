package gatepass

import (
	"time"

	"go-gatepass/internal/domain"
)

const (
	StatusPendingStaff            = "PENDING_STAFF"
	StatusPendingHOD              = "PENDING_HOD"
	StatusPendingAcademicDirector = "PENDING_ACADEMIC_DIRECTOR"
	StatusPendingHostelWarden     = "PENDING_HOSTEL_WARDEN"

	// StatusApproved is the security verification queue: the pass is fully
	// cleared and waits for the gate.
	StatusApproved = "APPROVED"
	StatusUsed     = "USED"

	// StatusExpired is derived at read time, never stored.
	StatusExpired = "EXPIRED"

	StatusRejectedByStaff            = "REJECTED_BY_STAFF"
	StatusRejectedByHOD              = "REJECTED_BY_HOD"
	StatusRejectedByAcademicDirector = "REJECTED_BY_ACADEMIC_DIRECTOR"
	StatusRejectedByHostelWarden     = "REJECTED_BY_HOSTEL_WARDEN"
	StatusRejectedBySecurity         = "REJECTED_BY_SECURITY"
)

const (
	DecisionApprove = "APPROVE"
	DecisionReject  = "REJECT"

	VerifyResultVerified = "VERIFIED"
	VerifyResultRejected = "REJECTED"
)

// Stage binds a pending status to the single role allowed to act on it and
// to its terminal rejection sibling.
type Stage struct {
	Pending  string
	Role     string
	Rejected string
}

var (
	staffStage = Stage{
		Pending:  StatusPendingStaff,
		Role:     domain.RoleStaff,
		Rejected: StatusRejectedByStaff,
	}
	hodStage = Stage{
		Pending:  StatusPendingHOD,
		Role:     domain.RoleHOD,
		Rejected: StatusRejectedByHOD,
	}
	academicDirectorStage = Stage{
		Pending:  StatusPendingAcademicDirector,
		Role:     domain.RoleAcademicDirector,
		Rejected: StatusRejectedByAcademicDirector,
	}
	hostelWardenStage = Stage{
		Pending:  StatusPendingHostelWarden,
		Role:     domain.RoleHostelWarden,
		Rejected: StatusRejectedByHostelWarden,
	}
)

// ApprovalChain returns the ordered approval stages for a requester. The
// hosteller flag must come from a fresh requester record; callers re-derive
// the chain on every transition instead of caching it on the pass.
func ApprovalChain(kind string, hosteller bool) []Stage {
	switch kind {
	case domain.RoleStudent:
		if hosteller {
			return []Stage{staffStage, hodStage, academicDirectorStage, hostelWardenStage}
		}
		return []Stage{staffStage, hodStage, academicDirectorStage}
	case domain.RoleStaff:
		return []Stage{hodStage, academicDirectorStage}
	case domain.RoleHOD:
		return []Stage{academicDirectorStage}
	default:
		return nil
	}
}

// InitialStatus is the pending status a freshly created pass starts in.
func InitialStatus(kind string) (string, bool) {
	chain := ApprovalChain(kind, false)
	if len(chain) == 0 {
		return "", false
	}
	return chain[0].Pending, true
}

// StageForStatus looks up the stage that owns a pending status, regardless
// of requester kind.
func StageForStatus(status string) (Stage, bool) {
	for _, st := range []Stage{staffStage, hodStage, academicDirectorStage, hostelWardenStage} {
		if st.Pending == status {
			return st, true
		}
	}
	return Stage{}, false
}

// StageForRole looks up the stage an approver role works, so its pending
// queue can be listed. Roles without an approval stage return false.
func StageForRole(role string) (Stage, bool) {
	for _, st := range []Stage{staffStage, hodStage, academicDirectorStage, hostelWardenStage} {
		if st.Role == role {
			return st, true
		}
	}
	return Stage{}, false
}

// NextStatus computes the approve target for the current pending status
// within the given chain. The last stage clears the pass into APPROVED.
// Returns false when the current status is not part of the chain.
func NextStatus(chain []Stage, current string) (string, bool) {
	for i, st := range chain {
		if st.Pending != current {
			continue
		}
		if i == len(chain)-1 {
			return StatusApproved, true
		}
		return chain[i+1].Pending, true
	}
	return "", false
}

// IsTerminal reports whether no further transition is accepted.
func IsTerminal(status string) bool {
	switch status {
	case StatusUsed,
		StatusRejectedByStaff,
		StatusRejectedByHOD,
		StatusRejectedByAcademicDirector,
		StatusRejectedByHostelWarden,
		StatusRejectedBySecurity:
		return true
	}
	return false
}

// IsPendingApproval reports whether the status is owned by an approval stage.
func IsPendingApproval(status string) bool {
	_, ok := StageForStatus(status)
	return ok
}

// EffectiveStatus derives EXPIRED for cleared-but-unused passes whose window
// has closed. Stored status is never rewritten.
func EffectiveStatus(status string, endAt, now time.Time) string {
	if status == StatusApproved && now.After(endAt) {
		return StatusExpired
	}
	return status
}
