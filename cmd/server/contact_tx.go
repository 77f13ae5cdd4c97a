package main

import (
	"context"
	"database/sql"
	"time"

	contactservice "identify/internal/contact/service"
	contactstore "identify/internal/contact/store"
	dErrors "identify/pkg/domain-errors"
)

const (
	defaultContactTxTimeout = 5 * time.Second
	// maxContactTxAttempts covers deadlocks between resolutions that lock
	// group roots in more than one round.
	maxContactTxAttempts = 3
)

// contactPostgresTx runs a whole resolution inside one database transaction.
type contactPostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newContactPostgresTx(db *sql.DB, timeout time.Duration) *contactPostgresTx {
	return &contactPostgresTx{db: db, timeout: timeout}
}

// RunInTx reruns fn when Postgres aborts the transaction with a deadlock or
// serialization failure. Any other error is returned as is.
func (t *contactPostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context, store contactservice.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultContactTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var err error
	for attempt := 1; attempt <= maxContactTxAttempts; attempt++ {
		err = t.runOnce(ctx, fn)
		if err == nil || !contactstore.IsRetryable(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (t *contactPostgresTx) runOnce(ctx context.Context, fn func(ctx context.Context, store contactservice.Store) error) error {
	tx, err := t.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, contactstore.NewPostgresTx(tx)); err != nil {
		return err
	}
	return tx.Commit()
}
