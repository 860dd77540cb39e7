package repository

import (
	"database/sql"
	"errors"
)

// serializableOpts is used for every multi-step settlement mutation: price
// guard outcomes, inventory deduction, payments, status transitions and
// receipt numbering must be all-or-nothing under concurrency.
var serializableOpts = &sql.TxOptions{Isolation: sql.LevelSerializable}

// errAborted forces a rollback for attempts that failed a guard inside the
// transaction; the caller reports the structured result instead of an error.
var errAborted = errors.New("settlement attempt aborted")
