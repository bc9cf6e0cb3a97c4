// Package connfactory owns the single process-wide *sql.DB handle to
// MotherDuck, per spec.md §4.9. It is a process singleton guarded by a
// mutex rather than a bare package-level *sql.DB, so rebinding to a
// different (token, database) pair is rejected instead of silently
// reconnecting.
package connfactory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/duckdb/duckdb-go/v2"

	"motherduck-destination/internal/errs"
)

// Options are the first-call connection options, per spec.md §4.9.
type Options struct {
	Token          string
	Database       string
	CommitSHA      string // embeds into the fivetran/<commit> user-agent
	MotherDuckHost string
}

var (
	mu      sync.Mutex
	db      *sql.DB
	bound   Options
	isBound bool
)

// Get returns the process-wide *sql.DB, initializing it on the first
// call with opts. Subsequent calls with a different token or database
// fail with a Precondition error; calls with the same (token, database)
// return the existing handle.
func Get(ctx context.Context, opts Options) (*sql.DB, error) {
	mu.Lock()
	defer mu.Unlock()

	if isBound {
		if bound.Token != opts.Token || bound.Database != opts.Database {
			return nil, errs.Precondition("Trying to connect to a different MotherDuck database %q than the one this process was initialized with", opts.Database)
		}
		return db, nil
	}

	dsn := buildDSN(opts)
	handle, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, translateAuthError(err)
	}
	if err := handle.PingContext(ctx); err != nil {
		handle.Close()
		return nil, translateAuthError(err)
	}

	// Best-effort welcome-message probe; failures are logged by the
	// caller (RequestContext has the Logger), never raised here.
	if _, err := handle.ExecContext(ctx, "FROM md_welcome_messages()"); err != nil {
		probeErr = err
	}

	db = handle
	bound = opts
	isBound = true
	return db, nil
}

// probeErr captures the last welcome-message probe failure so callers
// that want to log it can retrieve it once, without this package
// depending on internal/logging.
var probeErr error

// LastProbeError returns (and clears) the most recent welcome-message
// probe failure, or nil if the last probe succeeded.
func LastProbeError() error {
	mu.Lock()
	defer mu.Unlock()
	err := probeErr
	probeErr = nil
	return err
}

func buildDSN(opts Options) string {
	commit := opts.CommitSHA
	if commit == "" {
		commit = "unknown"
	}
	host := opts.MotherDuckHost
	if host == "" {
		host = "api.motherduck.com"
	}

	params := []string{
		fmt.Sprintf("motherduck_token=%s", opts.Token),
		fmt.Sprintf("custom_user_agent=fivetran/%s", commit),
		"old_implicit_casting=true",
		"motherduck_attach_mode=single",
		fmt.Sprintf("motherduck_host=%s", host),
	}
	return fmt.Sprintf("md:%s?%s", opts.Database, strings.Join(params, "&"))
}

// translateAuthError rewrites expired/invalid-token errors into
// Recoverable errors carrying user-actionable guidance, per spec.md
// §4.9.
func translateAuthError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Jwt is expired"):
		return errs.Recoverable("Your MotherDuck token has expired; please reconfigure the connector with a new token")
	case strings.Contains(msg, "Your request is not authenticated"):
		return errs.Recoverable("MotherDuck rejected this connection as unauthenticated; please reconfigure the connector with a valid token")
	case strings.Contains(msg, "Invalid MotherDuck token"):
		return errs.Recoverable("The configured MotherDuck token is invalid; please reconfigure the connector with a valid token")
	default:
		return errs.Warehouse(err)
	}
}

// resetForTest tears down the singleton; used only by this package's own
// tests, never by production code, since rebinding is otherwise
// rejected by design.
func resetForTest() {
	mu.Lock()
	defer mu.Unlock()
	if db != nil {
		db.Close()
	}
	db = nil
	bound = Options{}
	isBound = false
	probeErr = nil
}
