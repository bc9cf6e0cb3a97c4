// Package rpcserver implements the destination connector's 8-method
// gRPC surface (internal/pb.DestinationConnectorServer), wiring
// together reqctx (which reaches connfactory), ingest, sqlgen,
// reconcile, migrate and logging, per spec.md §6.1/§7. The raw request
// configuration goes straight to reqctx; config.Parse is not called here.
package rpcserver

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"motherduck-destination/internal/core"
	"motherduck-destination/internal/errs"
	"motherduck-destination/internal/ingest"
	"motherduck-destination/internal/logging"
	"motherduck-destination/internal/migrate"
	"motherduck-destination/internal/pb"
	"motherduck-destination/internal/reconcile"
	"motherduck-destination/internal/reqctx"
	"motherduck-destination/internal/sqlgen"
)

// rpcHeaderBudget bounds the byte length of any message placed into an
// RPC response header or failure field, per spec.md §7.
const rpcHeaderBudget = 4096

// Server implements pb.DestinationConnectorServer.
type Server struct {
	CommitSHA      string
	MotherDuckHost string
	RemoteSink     logging.RemoteSink
	SessionID      func() string // returns a fresh id per request; defaults to a constant if nil
}

func (s *Server) sessionID() string {
	if s.SessionID != nil {
		return s.SessionID()
	}
	return "sdk_destination"
}

func (s *Server) acquire(ctx context.Context, raw map[string]string) (*reqctx.RequestContext, error) {
	return reqctx.Acquire(ctx, reqctx.Config(raw), s.CommitSHA, s.MotherDuckHost, s.sessionID(), s.RemoteSink)
}

func (s *Server) ConfigurationForm(ctx context.Context, req *pb.ConfigurationFormRequest) (*pb.ConfigurationFormResponse, error) {
	return &pb.ConfigurationFormResponse{
		SchemaSelectionSupported: true,
		TableSelectionSupported:  true,
		Fields: []pb.FormField{
			{Name: "motherduck_token", Label: "MotherDuck Token", Required: true, Secret: true},
			{Name: "motherduck_database", Label: "MotherDuck Database", Required: true},
			{Name: "max_record_size", Label: "Max Record Size"},
			{Name: "motherduck_csv_block_size", Label: "CSV Block Size"},
		},
		Tests: []pb.ConfigurationTest{
			{Name: "connect", Label: "Connecting to MotherDuck"},
		},
	}, nil
}

func (s *Server) Test(ctx context.Context, req *pb.TestRequest) (*pb.TestResponse, error) {
	rc, err := s.acquire(ctx, req.Configuration)
	if err != nil {
		if errs.KindOf(err) == errs.KindRecoverable {
			return &pb.TestResponse{Success: false, Failure: errs.Truncate(err.Error(), rpcHeaderBudget)}, nil
		}
		return nil, grpcError(err)
	}
	defer rc.Release(nil)

	if err := rc.Conn.PingContext(ctx); err != nil {
		return &pb.TestResponse{Success: false, Failure: errs.Truncate(err.Error(), rpcHeaderBudget)}, nil
	}
	return &pb.TestResponse{Success: true}, nil
}

func (s *Server) DescribeTable(ctx context.Context, req *pb.DescribeTableRequest) (*pb.DescribeTableResponse, error) {
	rc, err := s.acquire(ctx, req.Configuration)
	if err != nil {
		return nil, grpcError(err)
	}
	defer rc.Release(nil)

	table, err := tableDef(req.Configuration["motherduck_database"], req.SchemaName, req.TableName).Normalize()
	if err != nil {
		return nil, grpcError(errs.InvalidArgument("%v", err))
	}

	cols, err := sqlgen.DescribeTable(ctx, rc.Conn, table)
	if err != nil {
		if errs.KindOf(err) == errs.KindWarehouse {
			rc.Logger.Severe("describe table failed", "error", err.Error())
			return &pb.DescribeTableResponse{NotFound: true}, nil
		}
		return nil, grpcError(err)
	}
	if len(cols) == 0 {
		return &pb.DescribeTableResponse{NotFound: true}, nil
	}

	return &pb.DescribeTableResponse{
		Table: &pb.Table{Name: table.TableName, Columns: toPBColumns(cols)},
	}, nil
}

func (s *Server) CreateTable(ctx context.Context, req *pb.CreateTableRequest) (*pb.CreateTableResponse, error) {
	rc, err := s.acquire(ctx, req.Configuration)
	if err != nil {
		return nil, grpcError(err)
	}
	defer rc.Release(nil)

	table, err := tableDef(req.Configuration["motherduck_database"], req.SchemaName, req.Table.Name).Normalize()
	if err != nil {
		return nil, grpcError(errs.InvalidArgument("%v", err))
	}
	cols := toCoreColumns(req.Table.Columns)

	if err := core.ValidateColumns(cols, "", false); err != nil {
		return &pb.CreateTableResponse{Warning: &pb.Warning{Message: errs.Truncate(err.Error(), rpcHeaderBudget)}}, nil
	}

	stmt, err := sqlgen.CreateTable(table, cols)
	if err != nil {
		return nil, grpcError(err)
	}
	if _, err := rc.Conn.ExecContext(ctx, stmt); err != nil {
		werr := errs.Warehouse(err)
		rc.Logger.Severe("create table failed", "error", werr.Error())
		return &pb.CreateTableResponse{Warning: &pb.Warning{Message: errs.Truncate(werr.Error(), rpcHeaderBudget)}}, nil
	}
	return &pb.CreateTableResponse{Success: true}, nil
}

func (s *Server) AlterTable(ctx context.Context, req *pb.AlterTableRequest) (*pb.AlterTableResponse, error) {
	rc, err := s.acquire(ctx, req.Configuration)
	if err != nil {
		return nil, grpcError(err)
	}
	defer rc.Release(nil)

	table, err := tableDef(req.Configuration["motherduck_database"], req.SchemaName, req.Table.Name).Normalize()
	if err != nil {
		return nil, grpcError(errs.InvalidArgument("%v", err))
	}
	requested := toCoreColumns(req.Table.Columns)

	existing, err := sqlgen.DescribeTable(ctx, rc.Conn, table)
	if err != nil {
		return nil, grpcError(err)
	}

	if err := core.ValidatePrimaryKeyUnchanged(existing, requested); err != nil {
		return &pb.AlterTableResponse{Warning: &pb.Warning{Message: errs.Truncate(err.Error(), rpcHeaderBudget)}}, nil
	}

	diff := reconcile.Diff(existing, requested)
	stmts, err := sqlgen.AlterTable(table, diff.Added, diff.Dropped, diff.Retyped)
	if err != nil {
		return nil, grpcError(err)
	}

	for _, stmt := range stmts {
		if _, err := rc.Conn.ExecContext(ctx, stmt); err != nil {
			werr := errs.Warehouse(err)
			rc.Logger.Severe("alter table failed", "error", werr.Error(), "statement", stmt)
			return &pb.AlterTableResponse{Warning: &pb.Warning{Message: errs.Truncate(werr.Error(), rpcHeaderBudget)}}, nil
		}
	}
	return &pb.AlterTableResponse{Success: true}, nil
}

func (s *Server) Truncate(ctx context.Context, req *pb.TruncateRequest) (*pb.TruncateResponse, error) {
	rc, err := s.acquire(ctx, req.Configuration)
	if err != nil {
		return nil, grpcError(err)
	}
	defer rc.Release(nil)

	table, err := tableDef(req.Configuration["motherduck_database"], req.SchemaName, req.TableName).Normalize()
	if err != nil {
		return nil, grpcError(errs.InvalidArgument("%v", err))
	}

	cutoff, perr := time.Parse(time.RFC3339Nano, req.UTCDeleteBefore)
	if perr != nil {
		return nil, grpcError(errs.InvalidArgument("utc_delete_before must be RFC3339: %v", perr))
	}

	existing, err := sqlgen.DescribeTable(ctx, rc.Conn, table)
	if err != nil {
		return nil, grpcError(err)
	}
	syncedCol, ok := core.FindColumn(existing, req.SyncedColumn)
	if !ok {
		return &pb.TruncateResponse{Warning: &pb.Warning{Message: fmt.Sprintf("synced column %q not found", req.SyncedColumn)}}, nil
	}

	stmt, err := sqlgen.TimeBoundedTruncate(table, syncedCol, req.DeletedColumn, cutoff)
	if err != nil {
		return nil, grpcError(err)
	}
	if _, err := rc.Conn.ExecContext(ctx, stmt); err != nil {
		werr := errs.Warehouse(err)
		rc.Logger.Severe("truncate failed", "error", werr.Error())
		return &pb.TruncateResponse{Warning: &pb.Warning{Message: errs.Truncate(werr.Error(), rpcHeaderBudget)}}, nil
	}
	return &pb.TruncateResponse{Success: true}, nil
}

// WriteBatch processes replace_files, then update_files, then
// delete_files, each in listed order, per spec.md §5's ordering
// guarantee.
func (s *Server) WriteBatch(ctx context.Context, req *pb.WriteBatchRequest) (*pb.WriteBatchResponse, error) {
	rc, err := s.acquire(ctx, req.Configuration)
	if err != nil {
		return nil, grpcError(err)
	}
	defer rc.Release(nil)

	table, err := tableDef(req.Configuration["motherduck_database"], req.SchemaName, req.Table.Name).Normalize()
	if err != nil {
		return nil, grpcError(errs.InvalidArgument("%v", err))
	}
	cols := toCoreColumns(req.Table.Columns)
	connectionID := s.sessionID()

	process := func(files []string, policy ingest.ColumnTypePolicy, apply func(viewName string) (string, error)) error {
		for _, f := range files {
			props := ingest.IngestProps{
				Filename:      f,
				DecryptionKey: req.FileParams.Keys[f],
				NullValue:     req.FileParams.NullString,
				Columns:       cols,
				Policy:        policy,
			}
			err := ingest.WithView(ctx, rc.Conn, connectionID, props, func(viewName string) error {
				stmt, err := apply(viewName)
				if err != nil {
					return err
				}
				if _, err := rc.Conn.ExecContext(ctx, stmt); err != nil {
					return errs.Warehouse(err)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}

	if err := process(req.ReplaceFiles, ingest.PolicyExplicitTypes, func(viewName string) (string, error) {
		return sqlgen.Upsert(table, cols, viewName)
	}); err != nil {
		rc.Logger.Severe("replace file failed", "error", err.Error())
		return &pb.WriteBatchResponse{Warning: &pb.Warning{Message: errs.Truncate(err.Error(), rpcHeaderBudget)}}, nil
	}

	if err := process(req.UpdateFiles, ingest.PolicyAllVarchar, func(viewName string) (string, error) {
		return sqlgen.UpdateWithUnmodifiedSentinel(table, cols, viewName, req.FileParams.UnmodifiedString, req.FileParams.NullString)
	}); err != nil {
		rc.Logger.Severe("update file failed", "error", err.Error())
		return &pb.WriteBatchResponse{Warning: &pb.Warning{Message: errs.Truncate(err.Error(), rpcHeaderBudget)}}, nil
	}

	pkCols := make([]core.ColumnDef, 0)
	for _, c := range cols {
		if c.PrimaryKey {
			pkCols = append(pkCols, c)
		}
	}
	if err := process(req.DeleteFiles, ingest.PolicyAllVarchar, func(viewName string) (string, error) {
		return sqlgen.Delete(table, pkCols, viewName)
	}); err != nil {
		rc.Logger.Severe("delete file failed", "error", err.Error())
		return &pb.WriteBatchResponse{Warning: &pb.Warning{Message: errs.Truncate(err.Error(), rpcHeaderBudget)}}, nil
	}

	return &pb.WriteBatchResponse{Success: true}, nil
}

func (s *Server) Migrate(ctx context.Context, req *pb.MigrateRequest) (*pb.MigrateResponse, error) {
	rc, err := s.acquire(ctx, req.Configuration)
	if err != nil {
		return nil, grpcError(err)
	}
	defer rc.Release(nil)

	table, err := tableDef(req.Configuration["motherduck_database"], req.SchemaName, req.Table.Name).Normalize()
	if err != nil {
		return nil, grpcError(errs.InvalidArgument("%v", err))
	}

	var opTs time.Time
	if req.OperationTimestamp != "" {
		opTs, err = time.Parse(time.RFC3339Nano, req.OperationTimestamp)
		if err != nil {
			return nil, grpcError(errs.InvalidArgument("operation_timestamp must be RFC3339: %v", err))
		}
	}

	var plan *migrate.Plan
	switch req.Operation {
	case pb.MigrateOpDropTable:
		plan = migrate.DropTable(table)
	case pb.MigrateOpRenameTable:
		plan = migrate.RenameTable(table, req.TargetTableName)
	case pb.MigrateOpRenameColumn:
		plan = migrate.RenameColumn(table, req.SourceColumnName, req.TargetColumnName)
	case pb.MigrateOpCopyTable:
		plan = migrate.CopyTable(table, tableDef(req.Configuration["motherduck_database"], req.SchemaName, req.TargetTableName))
	case pb.MigrateOpCopyColumn:
		plan, err = migrate.CopyColumn(table, toCoreColumn(req.Column), req.TargetColumnName)
	case pb.MigrateOpCopyTableToHistoryMode:
		plan = migrate.CopyTableToHistoryMode(table, tableDef(req.Configuration["motherduck_database"], req.SchemaName, req.TargetTableName), req.DeletedColumnName, opTs)
	case pb.MigrateOpAddColumnWithDefault:
		plan, err = migrate.AddColumnWithDefault(table, toCoreColumn(req.Column))
	case pb.MigrateOpAddColumnInHistoryMode:
		plan, err = migrate.AddColumnInHistoryMode(ctx, rc.Conn, table, toCoreColumn(req.Column), opTs)
	case pb.MigrateOpDropColumnInHistoryMode:
		plan, err = migrate.DropColumnInHistoryMode(ctx, rc.Conn, table, req.SourceColumnName, opTs)
	case pb.MigrateOpUpdateColumnValue:
		plan = migrate.UpdateColumnValue(table, req.SourceColumnName, req.ValueLiteral)
	case pb.MigrateOpSyncModeMigration:
		plan = migrate.SyncModeMigration(migrate.SyncModeMigrationParams{
			Table:             table,
			Transition:        syncModeTransition(req.SyncModeFrom, req.SyncModeTo),
			DeletedColumnName: req.DeletedColumnName,
			KeepDeletedRows:   req.KeepDeletedRows,
			Now:               opTs,
		})
	default:
		plan = migrate.UnsupportedPlan()
	}
	if err != nil {
		return nil, grpcError(err)
	}

	plan.Dedupe()
	if plan.Unsupported {
		return &pb.MigrateResponse{Success: true, Unsupported: true}, nil
	}

	for _, stmt := range plan.SQLStatements() {
		if _, err := rc.Conn.ExecContext(ctx, stmt); err != nil {
			werr := errs.Warehouse(err)
			rc.Logger.Severe("migration statement failed", "error", werr.Error(), "statement", stmt)
			return &pb.MigrateResponse{Warning: &pb.Warning{Message: errs.Truncate(werr.Error(), rpcHeaderBudget)}}, nil
		}
	}

	return &pb.MigrateResponse{
		Success:    true,
		Statements: plan.SQLStatements(),
		Breaking:   plan.BreakingNotes(),
	}, nil
}

func syncModeTransition(from, to string) migrate.SyncModeTransition {
	switch {
	case from == string(core.SyncLive) && to == string(core.SyncSoftDelete):
		return migrate.TransitionLiveToSoftDelete
	case from == string(core.SyncSoftDelete) && to == string(core.SyncLive):
		return migrate.TransitionSoftDeleteToLive
	case from == string(core.SyncLive) && to == string(core.SyncHistory):
		return migrate.TransitionLiveToHistory
	case from == string(core.SyncHistory) && to == string(core.SyncLive):
		return migrate.TransitionHistoryToLive
	case from == string(core.SyncHistory) && to == string(core.SyncSoftDelete):
		return migrate.TransitionHistoryToSoftDelete
	case from == string(core.SyncSoftDelete) && to == string(core.SyncHistory):
		return migrate.TransitionSoftDeleteToHistory
	default:
		return migrate.SyncModeTransition(-1)
	}
}

// grpcError maps an *errs.IngestError to a gRPC status, per spec.md §7:
// InvalidArgument errors surface as codes.InvalidArgument, everything
// else (Warehouse/IO/Crypto/Internal/Precondition/Recoverable) as
// codes.Internal, since response.failure already carries the detail for
// the cases the RPC contract expects callers to branch on.
func grpcError(err error) error {
	if err == nil {
		return nil
	}
	msg := errs.Truncate(err.Error(), rpcHeaderBudget)
	if errs.KindOf(err) == errs.KindInvalidArgument {
		return status.Error(codes.InvalidArgument, msg)
	}
	return status.Error(codes.Internal, msg)
}
