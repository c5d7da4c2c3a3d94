package gatepass

type CreateGatePassRequest struct {
	Type        string `json:"type" binding:"required,oneof=LEAVE HOME_VISIT EMERGENCY OFFICIAL OTHER"`
	Reason      string `json:"reason" binding:"required"`
	Description string `json:"description"`
	StartAt     string `json:"start_at" binding:"required"`
	EndAt       string `json:"end_at" binding:"required"`
}

type ApproveGatePassRequest struct {
	Comment string `json:"comment"`
}

type RejectGatePassRequest struct {
	Comment string `json:"comment" binding:"required"`
}

type VerifyGatePassRequest struct {
	Result  string `json:"result" binding:"required,oneof=VERIFIED REJECTED"`
	Comment string `json:"comment"`
}

type GatePassResponse struct {
	ID            string `json:"id"`
	PassNumber    string `json:"pass_number"`
	RequesterID   string `json:"requester_id"`
	RequesterKind string `json:"requester_kind"`
	DepartmentID  string `json:"department_id"`
	Type          string `json:"type"`
	Reason        string `json:"reason"`
	Description   string `json:"description,omitempty"`
	StartAt       string `json:"start_at"`
	EndAt         string `json:"end_at"`
	Status        string `json:"status"`

	StaffComment            *string `json:"staff_comment,omitempty"`
	HODComment              *string `json:"hod_comment,omitempty"`
	AcademicDirectorComment *string `json:"academic_director_comment,omitempty"`
	HostelWardenComment     *string `json:"hostel_warden_comment,omitempty"`
	SecurityComment         *string `json:"security_comment,omitempty"`

	CheckoutAt *string `json:"checkout_at,omitempty"`
	CheckinAt  *string `json:"checkin_at,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
