package gatepasserrors

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
	ErrInvalidRequesterID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid requester id",
		http.StatusBadRequest,
	)
	ErrRequesterNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"requester does not exist",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected RFC3339",
		http.StatusBadRequest,
	)
	ErrEndBeforeStart = apperror.New(
		apperror.CodeInvalidInput,
		"end_at must be after start_at",
		http.StatusBadRequest,
	)
	ErrStartTooSoon = apperror.New(
		apperror.CodeInvalidInput,
		"start_at must respect the configured lead time",
		http.StatusBadRequest,
	)
	ErrStartInPast = apperror.New(
		apperror.CodeInvalidInput,
		"start_at must not be before today",
		http.StatusBadRequest,
	)
	ErrGatePassNotFound = apperror.New(
		apperror.CodeNotFound,
		"gate pass not found",
		http.StatusNotFound,
	)
	ErrWrongApprover = apperror.New(
		apperror.CodeForbidden,
		"acting role does not own the current approval stage",
		http.StatusForbidden,
	)
	ErrCommentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"comment is required when rejecting",
		http.StatusBadRequest,
	)
	ErrAlreadyFinalized = apperror.New(
		apperror.CodeInvalidState,
		"gate pass is already in a terminal state",
		http.StatusConflict,
	)
	ErrNotAwaitingApproval = apperror.New(
		apperror.CodeInvalidState,
		"gate pass is not awaiting an approval decision",
		http.StatusConflict,
	)
	ErrNotAwaitingVerification = apperror.New(
		apperror.CodeInvalidState,
		"gate pass is not awaiting gate verification",
		http.StatusConflict,
	)
	ErrPassExpired = apperror.New(
		apperror.CodeInvalidState,
		"gate pass window has already closed",
		http.StatusConflict,
	)
	ErrDecisionConflict = apperror.New(
		apperror.CodeConflict,
		"another decision was applied concurrently, please re-fetch",
		http.StatusConflict,
	)
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeInvalidState,
		"gate pass has already been checked in",
		http.StatusConflict,
	)
	ErrNotCheckedOut = apperror.New(
		apperror.CodeInvalidState,
		"gate pass has not been used at the gate yet",
		http.StatusConflict,
	)
	ErrUnknownDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be APPROVE or REJECT",
		http.StatusBadRequest,
	)
	ErrUnknownVerifyResult = apperror.New(
		apperror.CodeInvalidInput,
		"verification result must be VERIFIED or REJECTED",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required",
		http.StatusBadRequest,
	)
	ErrNoQueueForRole = apperror.New(
		apperror.CodeForbidden,
		"role has no approval queue",
		http.StatusForbidden,
	)
)
