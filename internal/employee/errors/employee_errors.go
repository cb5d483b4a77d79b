package employeeerrors

import (
	"net/http"

	"github.com/rinov1/WorkWave/internal/shared/apperror"
)

var (
	ErrProfileNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee profile not found",
		http.StatusNotFound,
	)
	ErrForeignKeyViolation = apperror.New(
		apperror.CodeForeignKeyViolation,
		"Referenced account does not exist",
		http.StatusConflict,
	)
	ErrInvalidAccountID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid account ID",
		http.StatusBadRequest,
	)
	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid hire_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrHROnlyField = apperror.New(
		apperror.CodeForbidden,
		"Only HR can change position, vacation status or hire date",
		http.StatusForbidden,
	)
	ErrEmailNotEditable = apperror.New(
		apperror.CodeInvalidInput,
		"Email belongs to the account and cannot be changed on the profile",
		http.StatusBadRequest,
	)
	ErrNotOwnProfile = apperror.New(
		apperror.CodeForbidden,
		"You can only access your own profile",
		http.StatusForbidden,
	)
	ErrHRAccount = apperror.New(
		apperror.CodeInvalidState,
		"HR accounts are not part of the roster",
		http.StatusConflict,
	)
)
