package repositories

import "context"

// TxFn is a function that runs within a transaction.
type TxFn func(ctx context.Context) error

// TransactionManager executes a function inside a database transaction so
// that a folder write and its path map mirror write commit together or not
// at all.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}
