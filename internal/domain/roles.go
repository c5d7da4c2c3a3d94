package domain

// Campus roles. STUDENT, STAFF and HOD double as requester kinds;
// the rest only ever act on someone else's pass.
const (
	RoleStudent          = "STUDENT"
	RoleStaff            = "STAFF"
	RoleHOD              = "HOD"
	RoleAcademicDirector = "ACADEMIC_DIRECTOR"
	RoleHostelWarden     = "HOSTEL_WARDEN"
	RoleSecurity         = "SECURITY"
	RoleAdmin            = "ADMIN"
)

func IsKnownRole(role string) bool {
	switch role {
	case RoleStudent, RoleStaff, RoleHOD, RoleAcademicDirector,
		RoleHostelWarden, RoleSecurity, RoleAdmin:
		return true
	}
	return false
}
