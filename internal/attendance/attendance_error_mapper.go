package attendance

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const openSessionConstraint = "uq_work_sessions_open"

// isOpenSessionConflict reports a lost race on the one-open-session index.
func isOpenSessionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == openSessionConstraint
	}
	return false
}
