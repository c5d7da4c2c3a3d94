package departmenterrors

import (
	"net/http"

	"go-gatepass/internal/shared/apperror"
)

var (
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid department id",
		http.StatusBadRequest,
	)
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"department not found",
		http.StatusNotFound,
	)
	ErrNameAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"department name already exists",
		http.StatusConflict,
	)
)
