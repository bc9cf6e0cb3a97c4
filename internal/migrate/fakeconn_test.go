package migrate

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"
)

// fakeHistoryDriver stubs just enough of database/sql/driver to answer the
// single `SELECT max(_fivetran_start) ...` query checkHistoryStartMonotonicity
// issues, without standing up a real DuckDB connection.
type fakeHistoryDriver struct {
	maxStart time.Time
}

func (d *fakeHistoryDriver) Open(string) (driver.Conn, error) {
	return &fakeHistoryConn{maxStart: d.maxStart}, nil
}

type fakeHistoryConn struct {
	maxStart time.Time
}

func (c *fakeHistoryConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("fakeHistoryConn: Prepare not implemented")
}

func (c *fakeHistoryConn) Close() error { return nil }

func (c *fakeHistoryConn) Begin() (driver.Tx, error) {
	return nil, errors.New("fakeHistoryConn: Begin not implemented")
}

func (c *fakeHistoryConn) QueryContext(context.Context, string, []driver.NamedValue) (driver.Rows, error) {
	return &fakeHistoryRows{maxStart: c.maxStart, done: false}, nil
}

type fakeHistoryRows struct {
	maxStart time.Time
	done     bool
}

func (r *fakeHistoryRows) Columns() []string { return []string{"max"} }
func (r *fakeHistoryRows) Close() error      { return nil }

func (r *fakeHistoryRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	r.done = true
	dest[0] = r.maxStart
	return nil
}

// openFakeQueryConn registers a one-off fake driver reporting maxStart as
// the table's current max(_fivetran_start) and returns a checked-out
// *sql.Conn backed by it.
func openFakeQueryConn(t *testing.T, driverName string, maxStart time.Time) *sql.Conn {
	t.Helper()

	sql.Register(driverName, &fakeHistoryDriver{maxStart: maxStart})
	db, err := sql.Open(driverName, "")
	if err != nil {
		t.Fatalf("opening fake db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	conn, err := db.Conn(context.Background())
	if err != nil {
		t.Fatalf("checking out fake conn: %v", err)
	}
	return conn
}
