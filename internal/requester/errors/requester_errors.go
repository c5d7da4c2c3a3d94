package requestererrors

import (
	"net/http"

	"go-gatepass/internal/shared/apperror"
)

var (
	ErrInvalidRequesterID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid requester id",
		http.StatusBadRequest,
	)
	ErrRequesterNotFound = apperror.New(
		apperror.CodeNotFound,
		"requester not found",
		http.StatusNotFound,
	)
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"department does not exist",
		http.StatusBadRequest,
	)
	ErrEmailAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"requester with this email already exists",
		http.StatusConflict,
	)
	ErrAccommodationRequired = apperror.New(
		apperror.CodeInvalidInput,
		"accommodation is required for students",
		http.StatusBadRequest,
	)
	ErrAccommodationNotAllowed = apperror.New(
		apperror.CodeInvalidInput,
		"accommodation is only valid for students",
		http.StatusBadRequest,
	)
)
