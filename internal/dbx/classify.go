package dbx

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE PostgreSQL reports for unique index clashes.
const uniqueViolation = "23505"

// Classify maps driver-level failures onto the shared sentinels while keeping
// the original error in the chain:
//
//   - lost or refused connections become common.ErrorStoreUnavailable
//   - unique violations become common.ErrAlreadyExists
//
// Anything else (including nil) is returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrorStoreUnavailable) || errors.Is(err, common.ErrAlreadyExists) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", common.ErrAlreadyExists, pgErr.ConstraintName)
	}

	if isUnavailable(err) {
		return fmt.Errorf("%w: %w", common.ErrorStoreUnavailable, err)
	}
	return err
}

func isUnavailable(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
