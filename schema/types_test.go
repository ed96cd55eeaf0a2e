package schema

import (
	"testing"

	"cloud.google.com/go/bigquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColumnType(t *testing.T) {
	tests := []struct {
		input    string
		expected ColumnType
	}{
		{"integer", ColumnInteger},
		{"int", ColumnInteger},
		{"Int64", ColumnInteger},
		{"float", ColumnFloat},
		{"double", ColumnFloat},
		{"string", ColumnString},
		{"text", ColumnString},
		{"timestamp", ColumnTimestamp},
		{" datetime ", ColumnTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			columnType, err := ParseColumnType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, columnType)
		})
	}

	_, err := ParseColumnType("decimal")
	assert.Error(t, err)
}

func TestPostgresType(t *testing.T) {
	assert.Equal(t, "bigint", ColumnInteger.PostgresType())
	assert.Equal(t, "double precision", ColumnFloat.PostgresType())
	assert.Equal(t, "timestamp", ColumnTimestamp.PostgresType())
	assert.Equal(t, "text", ColumnString.PostgresType())
}

func TestGetCSVHeader(t *testing.T) {
	layout := []Column{
		{Name: "id", Type: ColumnInteger},
		{Name: "flag", Type: ColumnString},
	}

	assert.Equal(t, []string{"row_index", "id", "flag"}, GetCSVHeader(layout))
}

func TestGetPostgresCreateTableCommand(t *testing.T) {
	layout := []Column{
		{Name: "id", Type: ColumnInteger},
		{Name: "distance", Type: ColumnFloat},
		{Name: "pickup_time", Type: ColumnTimestamp},
		{Name: "flag", Type: ColumnString},
	}

	expected := `CREATE TABLE "trips" (
    "row_index" bigint,
    "id" bigint,
    "distance" double precision,
    "pickup_time" timestamp,
    "flag" text
)`
	assert.Equal(t, expected, GetPostgresCreateTableCommand("trips", layout))
}

func TestGetBigQuerySchema(t *testing.T) {
	layout := []Column{
		{Name: "id", Type: ColumnInteger},
		{Name: "pickup_time", Type: ColumnTimestamp},
	}

	fields := GetBigQuerySchema(layout)
	require.Len(t, fields, 3)
	assert.Equal(t, "row_index", fields[0].Name)
	assert.Equal(t, bigquery.IntegerFieldType, fields[0].Type)
	assert.Equal(t, bigquery.TimestampFieldType, fields[2].Type)
}
