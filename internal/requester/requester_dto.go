package requester

type CreateRequesterRequest struct {
	Kind          string `json:"kind" binding:"required,oneof=STUDENT STAFF HOD"`
	FullName      string `json:"full_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	DepartmentID  string `json:"department_id" binding:"required,uuid"`
	Accommodation string `json:"accommodation" binding:"omitempty,oneof=HOSTELLER DAY_SCHOLAR"`
}

type RequesterResponse struct {
	ID            string  `json:"id"`
	Kind          string  `json:"kind"`
	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	DepartmentID  string  `json:"department_id"`
	Accommodation *string `json:"accommodation,omitempty"`
}
