package workflows

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
)

// terminalDriver records exec calls so tests can confirm terminal status
// writes reach the database.
type terminalDriver struct{ execs atomic.Int32 }

func (d *terminalDriver) Open(string) (driver.Conn, error) {
	return &terminalConn{d: d}, nil
}

type terminalConn struct{ d *terminalDriver }

func (c *terminalConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *terminalConn) Close() error { return nil }

func (c *terminalConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (c *terminalConn) ExecContext(
	ctx context.Context,
	_ string,
	_ []driver.NamedValue,
) (driver.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.d.execs.Add(1)
	return driver.RowsAffected(1), nil
}

// A canceled request context must not strand the workflow in running:
// the failure write detaches from the request's cancellation.
func TestFailWritesAfterContextCancellation(t *testing.T) {
	drv := &terminalDriver{}
	sql.Register("workflows-terminal", drv)

	db, err := sql.Open("workflows-terminal", "")
	if err != nil {
		t.Fatalf("open stub database: %v", err)
	}
	defer db.Close()

	r := &repo{db: db, logger: slog.New(slog.DiscardHandler)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r.fail(ctx, uuid.New(), context.Canceled)

	if got := drv.execs.Load(); got != 1 {
		t.Fatalf("terminal update executed %d times, want 1", got)
	}
}
