package auth

type RegisterRequest struct {
	RequesterID string `json:"requester_id" binding:"omitempty,uuid"`
	Email       string `json:"email" binding:"required,email"`
	Name        string `json:"name" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	ID           string `json:"id"`
	RequesterID  string `json:"requester_id,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
}
