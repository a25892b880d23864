// Package errors holds the typed error taxonomy shared by the matching
// services and its translation to gRPC status codes.
package errors

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ValidationError reports malformed input. Never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// NotFoundError reports a missing user or interest.
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
}

// ConflictError is a transient store conflict: a unique-constraint race,
// a deadlock or a serialization failure. Callers retry once.
type ConflictError struct {
	Op  string
	Err error
}

func (e *ConflictError) Error() string { return fmt.Sprintf("conflict in %s: %v", e.Op, e.Err) }
func (e *ConflictError) Unwrap() error { return e.Err }

// StoreUnavailableError means the persistence layer could not be reached.
type StoreUnavailableError struct {
	Err error
}

func (e *StoreUnavailableError) Error() string { return "store unavailable: " + e.Err.Error() }
func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// ErrSelfMatch is returned when a user tries to like themselves.
var ErrSelfMatch = &ValidationError{Field: "target_id", Message: "cannot like yourself"}

// Validation builds a ValidationError.
func Validation(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// NotFound builds a NotFoundError.
func NotFound(resource string, id any) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsUnavailable(err error) bool {
	var u *StoreUnavailableError
	return errors.As(err, &u)
}

// MySQL error numbers treated as transient contention.
const (
	mysqlDupEntry        = 1062
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// FromStore classifies an error coming out of gorm into the taxonomy.
// Typed errors and context errors pass through unchanged.
func FromStore(op string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case IsValidation(err), IsNotFound(err), IsConflict(err), IsUnavailable(err):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &ConflictError{Op: op, Err: err}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDupEntry, mysqlLockWaitTimeout, mysqlDeadlock:
			return &ConflictError{Op: op, Err: err}
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "40001", "40P01":
			return &ConflictError{Op: op, Err: err}
		}
		if strings.HasPrefix(pgErr.Code, "08") {
			return &StoreUnavailableError{Err: err}
		}
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.As(err, &netErr) {
		return &StoreUnavailableError{Err: err}
	}

	return fmt.Errorf("%s: %w", op, err)
}
