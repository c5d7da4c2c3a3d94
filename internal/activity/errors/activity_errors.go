package activityerrors

import (
	"net/http"

	"go-gatepass/internal/shared/apperror"
)

var (
	ErrInvalidGatePassID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid gate pass id",
		http.StatusBadRequest,
	)
	ErrDuplicateActivity = apperror.New(
		apperror.CodeConflict,
		"activity already recorded for this transition",
		http.StatusConflict,
	)
)
