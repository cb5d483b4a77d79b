package attendanceerrors

import (
	"net/http"

	"github.com/rinov1/WorkWave/internal/shared/apperror"
)

var (
	ErrInvalidCode = apperror.New(
		apperror.CodeInvalidCode,
		"Scanned office code is empty",
		http.StatusBadRequest,
	)
	ErrNoOpenSession = apperror.New(
		apperror.CodeNoOpenSession,
		"There is no open work session",
		http.StatusConflict,
	)
	ErrOfficeMismatch = apperror.New(
		apperror.CodeOfficeMismatch,
		"Clock out must be scanned at the office where the session started",
		http.StatusConflict,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidTimezone = apperror.New(
		apperror.CodeInvalidInput,
		"Unknown time zone",
		http.StatusBadRequest,
	)
	ErrScanCancelled = apperror.New(
		apperror.CodeInvalidInput,
		"Scan was cancelled",
		http.StatusBadRequest,
	)
)
