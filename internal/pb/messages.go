// Package pb holds the destination connector's RPC message and
// service-descriptor types. These are hand-maintained Go structs
// rather than protoc-generated bindings: the connector's 8-method
// surface is modeled directly on the Fivetran partner SDK's
// destination.proto shape (see other_examples' surrealdb connector),
// but this module has no protoc/buf toolchain available to compile a
// .proto file, so the wire types are authored by hand and carried over
// gRPC using a JSON codec (see codec.go) instead of the generated
// protobuf wire format.
package pb

// FormField describes one entry in a ConfigurationForm response.
type FormField struct {
	Name         string
	Label        string
	Required     bool
	DefaultValue string
	Secret       bool
}

// ConfigurationTest names one connectivity test ConfigurationForm
// advertises and Test executes.
type ConfigurationTest struct {
	Name  string
	Label string
}

type ConfigurationFormRequest struct{}

type ConfigurationFormResponse struct {
	SchemaSelectionSupported bool
	TableSelectionSupported  bool
	Fields                   []FormField
	Tests                    []ConfigurationTest
}

type TestRequest struct {
	Name          string
	Configuration map[string]string
}

type TestResponse struct {
	Success bool
	Failure string // populated when Success is false
}

// DataType mirrors spec.md §6.2's CDC type vocabulary.
type DataType string

const (
	DataTypeBoolean      DataType = "BOOLEAN"
	DataTypeShort        DataType = "SHORT"
	DataTypeInt          DataType = "INT"
	DataTypeLong         DataType = "LONG"
	DataTypeFloat        DataType = "FLOAT"
	DataTypeDouble       DataType = "DOUBLE"
	DataTypeNaiveDate    DataType = "NAIVE_DATE"
	DataTypeNaiveDatetime DataType = "NAIVE_DATETIME"
	DataTypeUTCDatetime  DataType = "UTC_DATETIME"
	DataTypeDecimal      DataType = "DECIMAL"
	DataTypeBinary       DataType = "BINARY"
	DataTypeString       DataType = "STRING"
	DataTypeJSON         DataType = "JSON"
)

type Column struct {
	Name          string
	Type          DataType
	PrimaryKey    bool
	DecimalWidth  int
	DecimalScale  int
	DefaultValue  *string
	Comment       string
}

type Table struct {
	Name    string
	Columns []Column
}

type DescribeTableRequest struct {
	Configuration map[string]string
	SchemaName    string
	TableName     string
}

type Warning struct {
	Message string
}

type DescribeTableResponse struct {
	NotFound bool
	Warning  *Warning
	Table    *Table
}

type CreateTableRequest struct {
	Configuration map[string]string
	SchemaName    string
	Table         Table
}

type CreateTableResponse struct {
	Success bool
	Warning *Warning
}

type AlterTableRequest struct {
	Configuration map[string]string
	SchemaName    string
	Table         Table // the desired end state; the handler diffs it against the warehouse
}

type AlterTableResponse struct {
	Success bool
	Warning *Warning
}

type TruncateRequest struct {
	Configuration map[string]string
	SchemaName    string
	TableName     string
	SyncedColumn  string
	UTCDeleteBefore string // RFC3339Nano timestamp
	DeletedColumn string  // set when soft-delete semantics apply instead of hard truncate
}

type TruncateResponse struct {
	Success bool
	Warning *Warning
}

// FileParams describes how to interpret one CSV file referenced by a
// WriteBatchRequest, per spec.md §6.3.
type FileParams struct {
	Keys              map[string][]byte // per-file AES-256 key, keyed by file name
	NullString        string
	UnmodifiedString  string
	Compression       string // "NONE" or "ZSTD"
}

type WriteBatchRequest struct {
	Configuration map[string]string
	SchemaName    string
	Table         Table
	ReplaceFiles  []string
	UpdateFiles   []string
	DeleteFiles   []string
	FileParams    FileParams
}

type WriteBatchResponse struct {
	Success bool
	Warning *Warning
}

// MigrateOperation tags which of the migration-planner operations a
// MigrateRequest carries, mirroring spec.md §4.7's oneof.
type MigrateOperation string

const (
	MigrateOpDropTable               MigrateOperation = "DROP_TABLE"
	MigrateOpRenameTable             MigrateOperation = "RENAME_TABLE"
	MigrateOpRenameColumn            MigrateOperation = "RENAME_COLUMN"
	MigrateOpCopyTable               MigrateOperation = "COPY_TABLE"
	MigrateOpCopyColumn              MigrateOperation = "COPY_COLUMN"
	MigrateOpCopyTableToHistoryMode  MigrateOperation = "COPY_TABLE_TO_HISTORY_MODE"
	MigrateOpAddColumnWithDefault    MigrateOperation = "ADD_COLUMN_WITH_DEFAULT"
	MigrateOpAddColumnInHistoryMode  MigrateOperation = "ADD_COLUMN_IN_HISTORY_MODE"
	MigrateOpDropColumnInHistoryMode MigrateOperation = "DROP_COLUMN_IN_HISTORY_MODE"
	MigrateOpUpdateColumnValue       MigrateOperation = "UPDATE_COLUMN_VALUE"
	MigrateOpSyncModeMigration       MigrateOperation = "SYNC_MODE_MIGRATION"
)

type MigrateRequest struct {
	Configuration     map[string]string
	SchemaName        string
	Operation         MigrateOperation
	Table             Table
	TargetTableName   string
	SourceColumnName  string
	TargetColumnName  string
	Column            Column
	ValueLiteral      string
	DeletedColumnName string
	KeepDeletedRows   bool
	SyncModeFrom      string
	SyncModeTo        string
	OperationTimestamp string // RFC3339Nano
}

type MigrateResponse struct {
	Success     bool
	Unsupported bool
	Statements  []string
	Notes       []string
	Breaking    []string
	Warning     *Warning
}
