// Package reqctx scopes a single RPC call to its warehouse connection
// and logger, per spec.md §4.8.
package reqctx

import (
	"context"
	"database/sql"

	"motherduck-destination/internal/connfactory"
	"motherduck-destination/internal/errs"
	"motherduck-destination/internal/logging"
)

// RequestContext pairs the connection and logger one RPC handler uses
// for the duration of a single call.
type RequestContext struct {
	Conn   *sql.Conn
	Logger *logging.Logger

	conn *sql.Conn
}

// Config is the subset of the request's configuration map RequestContext
// needs; callers build it from the RPC request's string-keyed properties.
type Config map[string]string

func (c Config) get(name string) (string, error) {
	v, ok := c["motherduck_"+name]
	if !ok || v == "" {
		return "", errs.InvalidArgument("Missing property motherduck_%s", name)
	}
	return v, nil
}

// Acquire resolves motherduck_token/motherduck_database from cfg, asks
// ConnectionFactory for the process's warehouse connection, and builds a
// Logger carrying the warehouse session id.
func Acquire(ctx context.Context, cfg Config, commitSHA, motherDuckHost, sessionID string, remote logging.RemoteSink) (*RequestContext, error) {
	token, err := cfg.get("token")
	if err != nil {
		return nil, err
	}
	database, err := cfg.get("database")
	if err != nil {
		return nil, err
	}

	db, err := connfactory.Get(ctx, connfactory.Options{
		Token:          token,
		Database:       database,
		CommitSHA:      commitSHA,
		MotherDuckHost: motherDuckHost,
	})
	if err != nil {
		return nil, err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, errs.Warehouse(err)
	}

	log := logging.New(sessionID, remote).With("motherduck_database", database)
	if probeErr := connfactory.LastProbeError(); probeErr != nil {
		log.Warning("welcome message probe failed", "error", probeErr.Error())
	}

	return &RequestContext{Conn: conn, Logger: log, conn: conn}, nil
}

// Release rolls back any dangling transaction left open on the
// connection (best-effort; a rollback failure is logged as WARNING, never
// returned) and closes the connection, logging an "endpoint completed"
// event.
//
// Grounded on internal/apply.Applier.applyWithTransaction's
// begin/exec/rollback-on-error shape, generalized from one apply
// invocation to the whole request scope: this connector never keeps a
// *sql.Tx across RequestContext's lifetime, so there is normally nothing
// to roll back, but a handler that began one and returned early on error
// must not leak it.
func (r *RequestContext) Release(tx *sql.Tx) {
	if tx != nil {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			r.Logger.Warning("failed to roll back dangling transaction", "error", err.Error())
		}
	}

	if err := r.conn.Close(); err != nil {
		r.Logger.Warning("failed to release connection", "error", err.Error())
	}

	r.Logger.Info("endpoint completed")
}
