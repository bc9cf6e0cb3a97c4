package sqlgen

import (
	"motherduck-destination/internal/core"
	"motherduck-destination/internal/typemap"
)

// columnTypeLiteral renders a column's warehouse type, including
// DECIMAL(width,scale) when applicable. Other types ignore
// width/scale, per spec.md §4.5.1.
func columnTypeLiteral(c core.ColumnDef) (string, error) {
	return typemap.WarehouseType(c.Type, c.DecimalWidth, c.DecimalScale)
}

// columnDefLiteral renders a full column definition as used in CREATE
// TABLE and ADD COLUMN: "name" TYPE[(w,s)] [DEFAULT <literal>].
func columnDefLiteral(c core.ColumnDef) (string, error) {
	typeLit, err := columnTypeLiteral(c)
	if err != nil {
		return "", err
	}

	def := QuoteIdentifier(c.Name) + " " + typeLit
	if c.DefaultValue != nil {
		def += " DEFAULT " + defaultLiteral(*c.DefaultValue)
	}
	return def, nil
}

// defaultLiteral renders a caller-supplied default value. Per spec.md
// §4.7 and the Open Question decided in DESIGN.md: the literal "NULL"
// becomes the SQL keyword NULL, an empty string becomes the empty
// string literal '', and anything else is emitted exactly as supplied
// (the caller is responsible for quoting non-NULL literals).
func defaultLiteral(literal string) string {
	if literal == "NULL" {
		return "NULL"
	}
	if literal == "" {
		return "''"
	}
	return literal
}
