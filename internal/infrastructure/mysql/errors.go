package mysql

import (
	"errors"

	driver "github.com/go-sql-driver/mysql"
)

const (
	errDuplicateEntry   = 1062
	errRowIsReferenced  = 1451
	errLockWaitTimeout  = 1205
	errDeadlockDetected = 1213
)

func mysqlErrorNumber(err error) (uint16, bool) {
	var mysqlErr *driver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number, true
	}
	return 0, false
}

// IsRetryable reports deadlocks and lock wait timeouts, which InnoDB resolves
// by aborting one transaction; the caller may run it again.
func IsRetryable(err error) bool {
	n, ok := mysqlErrorNumber(err)
	return ok && (n == errDeadlockDetected || n == errLockWaitTimeout)
}

func IsDuplicateEntry(err error) bool {
	n, ok := mysqlErrorNumber(err)
	return ok && n == errDuplicateEntry
}

func IsForeignKeyReferenced(err error) bool {
	n, ok := mysqlErrorNumber(err)
	return ok && n == errRowIsReferenced
}
