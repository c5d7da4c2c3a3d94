package department

type CreateDepartmentRequest struct {
	Name     string `json:"name" binding:"required"`
	Building string `json:"building"`
}

type UpdateDepartmentRequest struct {
	Name     string `json:"name" binding:"required"`
	Building string `json:"building"`
}

type DepartmentResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Building string `json:"building,omitempty"`
}
