package connection

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// WithSQLTx returns a gorm handle whose statements run inside tx.
// Services own the transaction as *sql.Tx so gorm repositories and raw-SQL repositories
// (outbox) can share it.
func WithSQLTx(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db
	}
	scoped := db.Session(&gorm.Session{Context: context.Background(), NewDB: true})
	scoped.Statement.ConnPool = tx
	return scoped
}
