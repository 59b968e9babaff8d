package store

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorKind classifies Data Provider failures.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindUnavailable means the backend is unreachable or the client is not configured.
	KindUnavailable
	// KindSchemaMissing means the backing table does not exist.
	KindSchemaMissing
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindSchemaMissing:
		return "schema_missing"
	default:
		return "unknown"
	}
}

// postgres "undefined_table"
const pgUndefinedTable = "42P01"

// ErrNotConfigured is the cause recorded when no database client was provided.
var ErrNotConfigured = errors.New("database client not configured")

type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a store error anywhere in err's chain.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

func IsUnavailable(err error) bool { return KindOf(err) == KindUnavailable }
func IsSchemaMissing(err error) bool { return KindOf(err) == KindSchemaMissing }

// wrap classifies a raw driver error.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: classify(err), Op: op, Err: err}
}

func classify(err error) ErrorKind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUndefinedTable {
			return KindSchemaMissing
		}
		return KindUnknown
	}

	if errors.Is(err, ErrNotConfigured) ||
		errors.Is(err, context.DeadlineExceeded) ||
		pgconn.Timeout(err) {
		return KindUnavailable
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return KindUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindUnavailable
	}
	return KindUnknown
}
