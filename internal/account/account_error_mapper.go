package account

import (
	"errors"
	"strings"

	accounterrors "github.com/rinov1/WorkWave/internal/account/errors"
	"github.com/rinov1/WorkWave/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueEmailConstraint = "uq_accounts_email"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return accounterrors.ErrAccountNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperror.WrapWith(accounterrors.ErrDuplicateEmail, err)
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniqueEmailConstraint) {
		return apperror.WrapWith(accounterrors.ErrDuplicateEmail, err)
	}

	return err
}
