// Package staging manages the ephemeral in-memory DuckDB catalog each
// request attaches its staging CSV view under, so concurrent requests on
// the same connection never collide and nothing written to it survives
// past the request.
package staging

import (
	"context"
	"database/sql"
	"fmt"

	"motherduck-destination/internal/errs"
	"motherduck-destination/internal/logging"
)

// Catalog is a scope-bound handle on an attached ephemeral catalog. Its
// Close(ctx) always detaches, regardless of how the scope ended, matching spec.md §4.4's "DETACH on all exit paths"
// contract.
type Catalog struct {
	conn *sql.Conn
	log  *logging.Logger
	name string
}

// Name derives the deterministic per-connection catalog name, so
// concurrent requests against different connections never collide.
func Name(connectionID string) string {
	return fmt.Sprintf("temp_mem_db_%s", connectionID)
}

// Acquire attaches a fresh in-memory catalog, running DETACH IF EXISTS
// first so a prior crashed request's leftover attachment doesn't
// collide, per spec.md §4.3 step 4.
func Acquire(ctx context.Context, conn *sql.Conn, log *logging.Logger, connectionID string) (*Catalog, error) {
	name := Name(connectionID)

	if _, err := conn.ExecContext(ctx, fmt.Sprintf("DETACH IF EXISTS %s", quoteCatalog(name))); err != nil {
		return nil, errs.Warehouse(err)
	}
	if _, err := conn.ExecContext(ctx, fmt.Sprintf("ATTACH ':memory:' AS %s", quoteCatalog(name))); err != nil {
		return nil, errs.Warehouse(err)
	}

	return &Catalog{conn: conn, log: log, name: name}, nil
}

// Name returns the attached catalog's name.
func (c *Catalog) Name() string {
	return c.name
}

// Close detaches the catalog. Detach failures are never returned; they
// are logged as WARNING when the Catalog was acquired with a logger and
// dropped silently when it was acquired with a nil one.
func (c *Catalog) Close(ctx context.Context) error {
	if _, err := c.conn.ExecContext(ctx, fmt.Sprintf("DETACH IF EXISTS %s", quoteCatalog(c.name))); err != nil {
		if c.log != nil {
			c.log.Warning("failed to detach staging catalog", "catalog", c.name, "error", err.Error())
		}
	}
	return nil
}

func quoteCatalog(name string) string {
	return `"` + name + `"`
}
