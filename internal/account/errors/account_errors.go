package accounterrors

import (
	"net/http"

	"github.com/rinov1/WorkWave/internal/shared/apperror"
)

var (
	ErrDuplicateEmail = apperror.New(
		apperror.CodeDuplicateEmail,
		"An account with this email already exists",
		http.StatusConflict,
	)

	ErrAccountNotFound = apperror.New(
		apperror.CodeNotFound,
		"Account not found",
		http.StatusNotFound,
	)

	ErrInvalidAccountID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid account ID",
		http.StatusBadRequest,
	)
)
