package employee

import (
	"errors"
	"strings"

	employeeerrors "github.com/rinov1/WorkWave/internal/employee/errors"
	"github.com/rinov1/WorkWave/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrProfileNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return apperror.WrapWith(employeeerrors.ErrForeignKeyViolation, err)
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "violates foreign key constraint") {
		return apperror.WrapWith(employeeerrors.ErrForeignKeyViolation, err)
	}

	return err
}
