package schema

import (
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
)

// ColumnType is the declared semantic type of a column. Integers are
// nullable 64-bit, floats are 64-bit, timestamps are parsed from text with
// the default layouts of the source reader.
type ColumnType string

const (
	ColumnInteger   ColumnType = "integer"
	ColumnFloat     ColumnType = "float"
	ColumnString    ColumnType = "string"
	ColumnTimestamp ColumnType = "timestamp"
)

type Column struct {
	Name string
	Type ColumnType
}

// DataSchema declares the typed columns of a source. Columns absent from the
// declaration pass through as strings; every declared column must be present
// in the source header.
type DataSchema interface {
	Name() string
	Columns() []Column
	GetBigQueryTimePartitioning() *bigquery.TimePartitioning
	GetBigQueryClustering() *bigquery.Clustering
}

func ParseColumnType(s string) (ColumnType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "integer", "int", "int64":
		return ColumnInteger, nil
	case "float", "float64", "double":
		return ColumnFloat, nil
	case "string", "text":
		return ColumnString, nil
	case "timestamp", "datetime":
		return ColumnTimestamp, nil
	default:
		return "", fmt.Errorf("unknown column type: %q", s)
	}
}

func (t ColumnType) PostgresType() string {
	switch t {
	case ColumnInteger:
		return "bigint"
	case ColumnFloat:
		return "double precision"
	case ColumnTimestamp:
		return "timestamp"
	default:
		return "text"
	}
}

func (t ColumnType) BigQueryFieldType() bigquery.FieldType {
	switch t {
	case ColumnInteger:
		return bigquery.IntegerFieldType
	case ColumnFloat:
		return bigquery.FloatFieldType
	case ColumnTimestamp:
		return bigquery.TimestampFieldType
	default:
		return bigquery.StringFieldType
	}
}

// RowIndexColumn is written alongside the data columns: a sequential key
// continuing across chunks, starting at 0.
const RowIndexColumn = "row_index"

// GetCSVHeader returns the header line of a layout, row index first.
func GetCSVHeader(layout []Column) []string {
	header := make([]string, 0, len(layout)+1)
	header = append(header, RowIndexColumn)
	for _, col := range layout {
		header = append(header, col.Name)
	}
	return header
}

// GetPostgresCreateTableCommand builds the CREATE TABLE statement for a
// layout. The caller drops any existing table first; creation is always from
// scratch.
func GetPostgresCreateTableCommand(name string, layout []Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", pqQuoteIdentifier(name))
	fmt.Fprintf(&b, "    %s bigint", pqQuoteIdentifier(RowIndexColumn))
	for _, col := range layout {
		fmt.Fprintf(&b, ",\n    %s %s", pqQuoteIdentifier(col.Name), col.Type.PostgresType())
	}
	b.WriteString("\n)")
	return b.String()
}

func GetBigQuerySchema(layout []Column) bigquery.Schema {
	fields := make(bigquery.Schema, 0, len(layout)+1)
	fields = append(fields, &bigquery.FieldSchema{Name: RowIndexColumn, Type: bigquery.IntegerFieldType})
	for _, col := range layout {
		fields = append(fields, &bigquery.FieldSchema{Name: col.Name, Type: col.Type.BigQueryFieldType()})
	}
	return fields
}

func pqQuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
