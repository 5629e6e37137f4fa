package apperr

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers this service reacts to.
const (
	erRowIsReferenced    = 1217
	erNoReferencedRow    = 1216
	erRowIsReferenced2   = 1451
	erNoReferencedRow2   = 1452
	erTooManyConnections = 1040
	erServerShutdown     = 1053
	erLockWaitTimeout    = 1205
	erLockDeadlock       = 1213
)

// Translate maps a low-level persistence error to a structured domain error.
// Already-translated errors pass through unchanged; unknown errors collapse
// into a generic DATABASE_OPERATION_FAILED that leaks no internal detail.
func Translate(err error) *Error {
	if err == nil {
		return nil
	}
	if e := As(err); e != nil {
		return e
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case erNoReferencedRow, erNoReferencedRow2, erRowIsReferenced, erRowIsReferenced2:
			return New(CodeInvalidDataReference, "Operation references invalid data")
		case erTooManyConnections, erServerShutdown, erLockWaitTimeout, erLockDeadlock:
			return New(CodeDatabaseUnavailable, "Database temporarily unavailable, please retry")
		}
		return New(CodeDatabaseFailed, "Database operation failed")
	}

	// Connectivity class: the caller may retry these.
	var netErr net.Error
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr):
		return New(CodeDatabaseUnavailable, "Database temporarily unavailable, please retry")
	}

	return New(CodeDatabaseFailed, "Database operation failed")
}
