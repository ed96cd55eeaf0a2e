package source

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csvload/csvload/schema"
)

func tripSchema(t *testing.T) schema.DataSchema {
	t.Helper()
	dataSchema, err := schema.NewTable("trips", []schema.Column{
		{Name: "id", Type: schema.ColumnInteger},
		{Name: "distance", Type: schema.ColumnFloat},
		{Name: "pickup_time", Type: schema.ColumnTimestamp},
		{Name: "flag", Type: schema.ColumnString},
	})
	require.NoError(t, err)
	return dataSchema
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeTempGzipCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv.gz")

	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	_, err = gzipWriter.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())

	return path
}

func TestChunkedReaderChunking(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,distance,pickup_time,flag\n")
	for i := 0; i < 250; i++ {
		fmt.Fprintf(&b, "%d,1.5,2021-01-01 00:30:10,N\n", i)
	}

	reader, err := NewChunkedReader(Config{
		Location:  writeTempCSV(t, b.String()),
		ChunkSize: 100,
	}, tripSchema(t))
	require.NoError(t, err)
	defer reader.Close()

	expected := []struct {
		rows          int
		firstRowIndex int64
	}{
		{100, 0},
		{100, 100},
		{50, 200},
	}

	for _, want := range expected {
		chunk, err := reader.Next()
		require.NoError(t, err)
		assert.Equal(t, want.rows, chunk.RowCount())
		assert.Equal(t, want.firstRowIndex, chunk.FirstRowIndex)
	}

	_, err = reader.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestChunkedReaderChunkSizeOne(t *testing.T) {
	content := "id,distance,pickup_time,flag\n1,1.0,2021-01-01,N\n2,2.0,2021-01-02,Y\n3,3.0,2021-01-03,N\n"

	reader, err := NewChunkedReader(Config{
		Location:  writeTempCSV(t, content),
		ChunkSize: 1,
	}, tripSchema(t))
	require.NoError(t, err)
	defer reader.Close()

	for i := int64(0); i < 3; i++ {
		chunk, err := reader.Next()
		require.NoError(t, err)
		assert.Equal(t, 1, chunk.RowCount())
		assert.Equal(t, i, chunk.FirstRowIndex)
	}

	_, err = reader.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestChunkedReaderCoercion(t *testing.T) {
	content := "id,distance,pickup_time,flag\n42,3.25,2021-01-01 00:30:10,N\n"

	reader, err := NewChunkedReader(Config{
		Location:  writeTempCSV(t, content),
		ChunkSize: 10,
	}, tripSchema(t))
	require.NoError(t, err)
	defer reader.Close()

	chunk, err := reader.Next()
	require.NoError(t, err)
	require.Equal(t, 1, chunk.RowCount())

	row := chunk.Rows[0]
	assert.Equal(t, int64(42), row[0])
	assert.Equal(t, 3.25, row[1])
	assert.Equal(t, time.Date(2021, 1, 1, 0, 30, 10, 0, time.UTC), row[2])
	assert.Equal(t, "N", row[3])
}

func TestChunkedReaderEmptyCellsAreNull(t *testing.T) {
	content := "id,distance,pickup_time,flag\n,,,\n"

	reader, err := NewChunkedReader(Config{
		Location:  writeTempCSV(t, content),
		ChunkSize: 10,
	}, tripSchema(t))
	require.NoError(t, err)
	defer reader.Close()

	chunk, err := reader.Next()
	require.NoError(t, err)
	require.Equal(t, 1, chunk.RowCount())

	for _, cell := range chunk.Rows[0] {
		assert.Nil(t, cell)
	}
}

func TestChunkedReaderCoercionFailure(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"bad integer", "not_a_number,1.0,2021-01-01,N"},
		{"bad float", "1,west,2021-01-01,N"},
		{"bad timestamp", "1,1.0,yesterday,N"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "id,distance,pickup_time,flag\n" + tt.row + "\n"

			reader, err := NewChunkedReader(Config{
				Location:  writeTempCSV(t, content),
				ChunkSize: 10,
			}, tripSchema(t))
			require.NoError(t, err)
			defer reader.Close()

			_, err = reader.Next()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "cannot coerce")
		})
	}
}

func TestChunkedReaderMissingDeclaredColumn(t *testing.T) {
	content := "id,distance,flag\n1,1.0,N\n"

	_, err := NewChunkedReader(Config{
		Location:  writeTempCSV(t, content),
		ChunkSize: 10,
	}, tripSchema(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pickup_time")
}

func TestChunkedReaderDuplicateHeaderColumn(t *testing.T) {
	// A declared column repeated in the header must not mask another
	// declared column that is absent.
	content := "id,id\n1,2\n"

	dataSchema, err := schema.NewTable("trips", []schema.Column{
		{Name: "id", Type: schema.ColumnInteger},
		{Name: "distance", Type: schema.ColumnFloat},
	})
	require.NoError(t, err)

	_, err = NewChunkedReader(Config{
		Location:  writeTempCSV(t, content),
		ChunkSize: 10,
	}, dataSchema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "distance")
}

func TestChunkedReaderUndeclaredColumnsPassThrough(t *testing.T) {
	content := "id,distance,pickup_time,flag,surprise\n1,1.0,2021-01-01,N,hello\n"

	reader, err := NewChunkedReader(Config{
		Location:  writeTempCSV(t, content),
		ChunkSize: 10,
	}, tripSchema(t))
	require.NoError(t, err)
	defer reader.Close()

	layout := reader.Layout()
	require.Len(t, layout, 5)
	assert.Equal(t, "surprise", layout[4].Name)
	assert.Equal(t, schema.ColumnString, layout[4].Type)

	chunk, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, "hello", chunk.Rows[0][4])
}

func TestChunkedReaderGzip(t *testing.T) {
	content := "id,distance,pickup_time,flag\n7,2.5,2021-01-01 12:00:00,Y\n"

	reader, err := NewChunkedReader(Config{
		Location:  writeTempGzipCSV(t, content),
		ChunkSize: 10,
	}, tripSchema(t))
	require.NoError(t, err)
	defer reader.Close()

	chunk, err := reader.Next()
	require.NoError(t, err)
	require.Equal(t, 1, chunk.RowCount())
	assert.Equal(t, int64(7), chunk.Rows[0][0])
}

func TestChunkedReaderHeaderOnly(t *testing.T) {
	reader, err := NewChunkedReader(Config{
		Location:  writeTempCSV(t, "id,distance,pickup_time,flag\n"),
		ChunkSize: 10,
	}, tripSchema(t))
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestChunkedReaderEmptyFile(t *testing.T) {
	_, err := NewChunkedReader(Config{
		Location:  writeTempCSV(t, ""),
		ChunkSize: 10,
	}, tripSchema(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestChunkedReaderInvalidChunkSize(t *testing.T) {
	_, err := NewChunkedReader(Config{
		Location:  "ignored.csv",
		ChunkSize: 0,
	}, tripSchema(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk size")
}
