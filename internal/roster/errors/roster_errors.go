package rostererrors

import (
	"net/http"

	"github.com/rinov1/WorkWave/internal/shared/apperror"
)

var (
	ErrChannelUnavailable = apperror.New(
		apperror.CodeChannelUnavailable,
		"Live roster is temporarily unavailable",
		http.StatusServiceUnavailable,
	)

	ErrRosterNotVisible = apperror.New(
		apperror.CodeForbidden,
		"The employee roster is not available for this account",
		http.StatusForbidden,
	)

	ErrAlreadyStarted = apperror.New(
		apperror.CodeInvalidState,
		"Roster synchronizer already started",
		http.StatusInternalServerError,
	)
)
