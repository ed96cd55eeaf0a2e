package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	table, err := NewTable("trips", []Column{
		{Name: "id", Type: ColumnInteger},
		{Name: "flag", Type: ColumnString},
	})
	require.NoError(t, err)
	assert.Equal(t, "trips", table.Name())
	assert.Len(t, table.Columns(), 2)
	assert.Nil(t, table.GetBigQueryTimePartitioning())
	assert.Nil(t, table.GetBigQueryClustering())
}

func TestNewTableValidation(t *testing.T) {
	tests := []struct {
		name    string
		columns []Column
	}{
		{"no columns", nil},
		{"unnamed column", []Column{{Name: "", Type: ColumnInteger}}},
		{"duplicate column", []Column{
			{Name: "id", Type: ColumnInteger},
			{Name: "id", Type: ColumnString},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable("broken", tt.columns)
			assert.Error(t, err)
		})
	}
}

func TestYellowTaxiSchema(t *testing.T) {
	taxi := YellowTaxi{}

	assert.Equal(t, "yellow_taxi", taxi.Name())
	require.Len(t, taxi.Columns(), 18)

	declared := make(map[string]ColumnType)
	for _, col := range taxi.Columns() {
		declared[col.Name] = col.Type
	}
	assert.Equal(t, ColumnTimestamp, declared["tpep_pickup_datetime"])
	assert.Equal(t, ColumnTimestamp, declared["tpep_dropoff_datetime"])
	assert.Equal(t, ColumnInteger, declared["passenger_count"])
	assert.Equal(t, ColumnFloat, declared["total_amount"])

	require.NotNil(t, taxi.GetBigQueryTimePartitioning())
	assert.Equal(t, "tpep_pickup_datetime", taxi.GetBigQueryTimePartitioning().Field)
	require.NotNil(t, taxi.GetBigQueryClustering())
}
