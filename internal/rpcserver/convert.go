package rpcserver

import (
	"motherduck-destination/internal/core"
	"motherduck-destination/internal/pb"
)

func toCoreColumn(c pb.Column) core.ColumnDef {
	return core.ColumnDef{
		Name:         c.Name,
		Type:         core.DataType(c.Type),
		PrimaryKey:   c.PrimaryKey,
		DecimalWidth: c.DecimalWidth,
		DecimalScale: c.DecimalScale,
		DefaultValue: c.DefaultValue,
		Comment:      c.Comment,
	}
}

func toCoreColumns(cs []pb.Column) []core.ColumnDef {
	out := make([]core.ColumnDef, len(cs))
	for i, c := range cs {
		out[i] = toCoreColumn(c)
	}
	return out
}

func toPBColumn(c core.ColumnDef) pb.Column {
	return pb.Column{
		Name:         c.Name,
		Type:         pb.DataType(c.Type),
		PrimaryKey:   c.PrimaryKey,
		DecimalWidth: c.DecimalWidth,
		DecimalScale: c.DecimalScale,
		DefaultValue: c.DefaultValue,
		Comment:      c.Comment,
	}
}

func toPBColumns(cs []core.ColumnDef) []pb.Column {
	out := make([]pb.Column, len(cs))
	for i, c := range cs {
		out[i] = toPBColumn(c)
	}
	return out
}

func tableDef(database, schemaName, tableName string) core.TableDef {
	return core.TableDef{DBName: database, SchemaName: schemaName, TableName: tableName}
}
