package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/studentrecords/internal/db"
)

// readOnlySnapshot makes every read inside the transaction see the same snapshot
var readOnlySnapshot = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

// PostgresStudentStore runs student units of work as PostgreSQL transactions
type PostgresStudentStore struct {
	database *db.PostgresDB
}

// NewPostgresStudentStore creates a new PostgresStudentStore
func NewPostgresStudentStore(database *db.PostgresDB) *PostgresStudentStore {
	return &PostgresStudentStore{database: database}
}

var _ StudentStore = (*PostgresStudentStore)(nil)

// WithinTx runs fn inside a read-write transaction
func (s *PostgresStudentStore) WithinTx(ctx context.Context, fn TxFn) error {
	return s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewPostgresStudentRepository(tx))
	})
}

// WithinReadOnlyTx runs fn inside a REPEATABLE READ, READ ONLY transaction
func (s *PostgresStudentStore) WithinReadOnlyTx(ctx context.Context, fn TxFn) error {
	return s.database.WithTransactionOptions(ctx, readOnlySnapshot, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewPostgresStudentRepository(tx))
	})
}
