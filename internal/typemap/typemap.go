// Package typemap provides the bidirectional mapping between CDC wire
// types and DuckDB/MotherDuck warehouse types (spec.md §6.2), in the same
// table-driven style as the teacher's normalizeDataTypeRules.
package typemap

import (
	"fmt"
	"strings"

	"motherduck-destination/internal/core"
)

type entry struct {
	cdc       core.DataType
	warehouse string
}

// table is intentionally a flat slice (not a map) so both directions can
// be derived from one ordered source of truth, mirroring how the teacher
// keeps a single normalizeDataTypeRules table instead of two maps that
// could drift apart.
var table = []entry{
	{core.TypeBoolean, "BOOLEAN"},
	{core.TypeShort, "SMALLINT"},
	{core.TypeInt, "INTEGER"},
	{core.TypeLong, "BIGINT"},
	{core.TypeFloat, "FLOAT"},
	{core.TypeDouble, "DOUBLE"},
	{core.TypeNaiveDate, "DATE"},
	{core.TypeNaiveDatetime, "TIMESTAMP"},
	{core.TypeUTCDatetime, "TIMESTAMPTZ"},
	{core.TypeDecimal, "DECIMAL"},
	{core.TypeBinary, "BITSTRING"},
	{core.TypeString, "VARCHAR"},
	{core.TypeJSON, "VARCHAR"},
}

// WarehouseType returns the DuckDB type name for a CDC type, applying
// decimal width/scale when applicable. JSON is rendered as VARCHAR at the
// warehouse (DuckDB has no first-class JSON-from-CSV sentinel needed
// here), matching spec.md's JSON↔varchar row.
func WarehouseType(t core.DataType, width, scale int) (string, error) {
	for _, e := range table {
		if e.cdc != t {
			continue
		}
		if t == core.TypeDecimal {
			if width <= 0 {
				width = 38
			}
			return fmt.Sprintf("DECIMAL(%d,%d)", width, scale), nil
		}
		return e.warehouse, nil
	}
	return "", fmt.Errorf("unmapped CDC type %q", t)
}

// CDCType maps a DuckDB/information_schema type name back to a CDC type.
// Matching is case-insensitive prefix containment, since
// information_schema.columns.data_type for DECIMAL(10,2) is reported as
// "DECIMAL(10,2)".
func CDCType(warehouseType string) core.DataType {
	upper := strings.ToUpper(strings.TrimSpace(warehouseType))
	switch {
	case strings.HasPrefix(upper, "BOOL"):
		return core.TypeBoolean
	case strings.HasPrefix(upper, "SMALLINT") || strings.HasPrefix(upper, "INT2"):
		return core.TypeShort
	case strings.HasPrefix(upper, "BIGINT") || strings.HasPrefix(upper, "INT8") || strings.HasPrefix(upper, "HUGEINT"):
		return core.TypeLong
	case strings.HasPrefix(upper, "INTEGER") || strings.HasPrefix(upper, "INT4") || upper == "INT":
		return core.TypeInt
	case strings.HasPrefix(upper, "FLOAT") || strings.HasPrefix(upper, "REAL"):
		return core.TypeFloat
	case strings.HasPrefix(upper, "DOUBLE"):
		return core.TypeDouble
	case strings.HasPrefix(upper, "TIMESTAMPTZ") || strings.HasPrefix(upper, "TIMESTAMP WITH TIME ZONE"):
		return core.TypeUTCDatetime
	case strings.HasPrefix(upper, "TIMESTAMP"):
		return core.TypeNaiveDatetime
	case strings.HasPrefix(upper, "DATE"):
		return core.TypeNaiveDate
	case strings.HasPrefix(upper, "DECIMAL") || strings.HasPrefix(upper, "NUMERIC"):
		return core.TypeDecimal
	case strings.HasPrefix(upper, "BIT"):
		return core.TypeBinary
	default:
		return core.TypeString
	}
}

// ParseDecimalWidthScale extracts (width, scale) from a DuckDB DECIMAL(w,s)
// type string. Returns (0, 0, false) if warehouseType isn't a DECIMAL type.
func ParseDecimalWidthScale(warehouseType string) (width, scale int, ok bool) {
	upper := strings.ToUpper(strings.TrimSpace(warehouseType))
	if !strings.HasPrefix(upper, "DECIMAL(") && !strings.HasPrefix(upper, "NUMERIC(") {
		return 0, 0, false
	}
	open := strings.Index(upper, "(")
	close := strings.Index(upper, ")")
	if open < 0 || close < 0 || close < open {
		return 0, 0, false
	}
	parts := strings.Split(upper[open+1:close], ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	_, err1 := fmt.Sscanf(strings.TrimSpace(parts[0]), "%d", &width)
	_, err2 := fmt.Sscanf(strings.TrimSpace(parts[1]), "%d", &scale)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return width, scale, true
}
