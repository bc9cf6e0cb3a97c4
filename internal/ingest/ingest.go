// Package ingest turns one CSV (optionally encrypted, optionally
// zstd-compressed) file into a queryable DuckDB view, per spec.md §4.3.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"motherduck-destination/internal/core"
	"motherduck-destination/internal/crypto"
	"motherduck-destination/internal/errs"
	"motherduck-destination/internal/memfile"
	"motherduck-destination/internal/sqlgen"
	"motherduck-destination/internal/staging"
	"motherduck-destination/internal/typemap"
)

// zstdMagic is the 4-byte ZSTD frame magic number, sniffed to pick the
// read_csv compression option; actual decompression is delegated to
// DuckDB, not performed in Go.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// Compression enumerates the sniffed compression of the effective input
// file.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
)

// ColumnTypePolicy selects how the read_csv view's column types are
// pinned, per spec.md §4.3 step 5.
type ColumnTypePolicy int

const (
	// PolicyAutoDetect requests auto_detect=true with no column_types,
	// used when any requested column is UNSPECIFIED.
	PolicyAutoDetect ColumnTypePolicy = iota
	// PolicyAllVarchar requests all_varchar=true; rpcserver uses it for
	// update and delete batches, so DML can TRY_CAST per column. Replace
	// batches always use PolicyExplicitTypes, with or without an
	// unmodified-value sentinel.
	PolicyAllVarchar
	// PolicyExplicitTypes emits an explicit column_types={...} map while
	// keeping auto_detect=true so the CSV header still drives ordering.
	PolicyExplicitTypes
)

// IngestProps configures one ingest call.
type IngestProps struct {
	Filename      string
	DecryptionKey []byte // empty ⇒ file is not encrypted
	NullValue     string
	Columns       []core.ColumnDef
	Policy        ColumnTypePolicy
}

// WithView invokes fn with the fully qualified name of a view over the
// ingested CSV, guaranteeing the ephemeral staging catalog is detached
// on every exit path, per spec.md §4.3 step 7.
func WithView(ctx context.Context, conn *sql.Conn, connectionID string, props IngestProps, fn func(viewName string) error) error {
	info, err := os.Stat(props.Filename)
	if err != nil || info.IsDir() {
		return errs.InvalidArgument("file %q does not exist or is not readable", props.Filename)
	}

	effectivePath := props.Filename
	var mem *memfile.File
	if len(props.DecryptionKey) > 0 {
		mem, err = memfile.Create(info.Size())
		if err != nil {
			return err
		}
		defer mem.Close()

		w, err := mem.Writer()
		if err != nil {
			return err
		}
		decryptErr := crypto.DecryptFile(props.Filename, w, props.DecryptionKey)
		closeErr := w.Close()
		if decryptErr != nil {
			return decryptErr
		}
		if closeErr != nil {
			return errs.IO("closing memfd writer for %s: %v", props.Filename, closeErr)
		}
		effectivePath = mem.Path()
	}

	compression, err := sniffCompression(effectivePath)
	if err != nil {
		return err
	}

	// No logger is passed, so a failed DETACH in cat.Close is not logged.
	cat, err := staging.Acquire(ctx, conn, nil, connectionID)
	if err != nil {
		return err
	}
	defer cat.Close(ctx)

	viewStmt, viewName, err := buildCreateViewStatement(cat.Name(), effectivePath, compression, props)
	if err != nil {
		return err
	}

	if _, err := conn.ExecContext(ctx, viewStmt); err != nil {
		return errs.Wrap(errs.KindWarehouse, fmt.Sprintf("creating staging view for %s", props.Filename), err)
	}

	return fn(viewName)
}

func sniffCompression(path string) (Compression, error) {
	f, err := os.Open(path)
	if err != nil {
		return CompressionNone, errs.IO("opening %s for compression sniff: %v", path, err)
	}
	defer f.Close()

	buf := make([]byte, 4)
	n, _ := f.Read(buf)
	if n == 4 && string(buf) == string(zstdMagic) {
		return CompressionZstd, nil
	}
	return CompressionNone, nil
}

func buildCreateViewStatement(catalog, path string, compression Compression, props IngestProps) (stmt, viewName string, err error) {
	viewName = fmt.Sprintf("%s.%s.%s", sqlgen.QuoteIdentifier(catalog), sqlgen.QuoteIdentifier("main"), sqlgen.QuoteIdentifier("csv_view"))

	opts := []string{
		"delim=','",
		"header=true",
		`escape='"'`,
		`quote='"'`,
		`new_line='\n'`,
		"encoding='utf-8'",
		fmt.Sprintf("compression='%s'", compression),
	}
	if props.NullValue != "" {
		opts = append(opts, fmt.Sprintf("nullstr=%s", sqlgen.QuoteString(props.NullValue)))
	}

	policy := props.Policy
	anyUnspecified := false
	for _, c := range props.Columns {
		if c.Type == core.TypeUnspecified {
			anyUnspecified = true
			break
		}
	}
	if anyUnspecified {
		policy = PolicyAutoDetect
	}

	switch policy {
	case PolicyAllVarchar:
		opts = append(opts, "all_varchar=true")
	case PolicyExplicitTypes:
		var pairs []string
		for _, c := range props.Columns {
			typeLit, terr := typemap.WarehouseType(c.Type, c.DecimalWidth, c.DecimalScale)
			if terr != nil {
				return "", "", terr
			}
			pairs = append(pairs, fmt.Sprintf("%s: %s", sqlgen.QuoteString(c.Name), sqlgen.QuoteString(typeLit)))
		}
		opts = append(opts, fmt.Sprintf("column_types={%s}", strings.Join(pairs, ", ")), "auto_detect=true")
	default: // PolicyAutoDetect
		opts = append(opts, "auto_detect=true")
	}

	var projection []string
	for _, c := range props.Columns {
		projection = append(projection, sqlgen.QuoteIdentifier(c.Name))
	}

	stmt = fmt.Sprintf(
		`CREATE VIEW %s AS SELECT %s FROM read_csv(%s, %s)`,
		viewName,
		strings.Join(projection, ", "),
		sqlgen.QuoteString(path),
		strings.Join(opts, ", "),
	)
	return stmt, viewName, nil
}
