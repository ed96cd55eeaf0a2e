package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csvload/csvload/schema"
	"github.com/csvload/csvload/source"
)

// memoryDestination records everything the ingestor writes.
type memoryDestination struct {
	layout       []schema.Column
	chunks       []*source.Chunk
	createCalls  int
	connectCalls int
	closed       bool

	appendErr error
}

func (m *memoryDestination) Connect() error {
	m.connectCalls++
	return nil
}

// CreateTable models the destructive replace: whatever a previous run wrote
// is gone once the table is recreated.
func (m *memoryDestination) CreateTable(layout []schema.Column) error {
	m.createCalls++
	m.layout = layout
	m.chunks = nil
	return nil
}

func (m *memoryDestination) AppendChunk(chunk *source.Chunk) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.chunks = append(m.chunks, chunk)
	return nil
}

func (m *memoryDestination) Close() error {
	m.closed = true
	return nil
}

func writeTripCSV(t *testing.T, rows int) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("id,distance,pickup_time,flag\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%d,1.5,2021-01-01 00:30:10,N\n", i)
	}

	path := filepath.Join(t.TempDir(), "trips.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

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

func newTestIngestor(t *testing.T, location string, chunkSize int, destination *memoryDestination) *Ingestor {
	t.Helper()
	return NewIngestor(Config{
		ConnectionName: "test",
		Source: source.Config{
			Location:  location,
			ChunkSize: chunkSize,
		},
		Schema:            tripSchema(t),
		TelemetryDisabled: true,
	}, destination)
}

func TestRunWritesAllChunksInOrder(t *testing.T) {
	destination := &memoryDestination{}
	ingestor := newTestIngestor(t, writeTripCSV(t, 5), 2, destination)

	status, err := ingestor.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), status.RowsWritten)
	assert.Equal(t, int64(3), status.ChunksWritten)

	assert.Equal(t, 1, destination.connectCalls)
	assert.Equal(t, 1, destination.createCalls)
	assert.True(t, destination.closed)
	require.Len(t, destination.layout, 4)

	require.Len(t, destination.chunks, 3)
	var nextRowIndex int64
	var total int
	for _, chunk := range destination.chunks {
		assert.Equal(t, nextRowIndex, chunk.FirstRowIndex)
		for _, row := range chunk.Rows {
			assert.Equal(t, nextRowIndex, row[0].(int64))
			nextRowIndex++
		}
		total += chunk.RowCount()
	}
	assert.Equal(t, 5, total)
}

func TestRunTwiceReplacesTable(t *testing.T) {
	destination := &memoryDestination{}

	first := newTestIngestor(t, writeTripCSV(t, 5), 2, destination)
	_, err := first.Run(context.Background())
	require.NoError(t, err)

	second := newTestIngestor(t, writeTripCSV(t, 3), 2, destination)
	status, err := second.Run(context.Background())
	require.NoError(t, err)

	// Only the second run's rows survive the replace.
	assert.Equal(t, 2, destination.createCalls)
	assert.Equal(t, int64(3), status.RowsWritten)

	var total int
	for _, chunk := range destination.chunks {
		total += chunk.RowCount()
	}
	assert.Equal(t, 3, total)
	require.NotEmpty(t, destination.chunks)
	assert.Equal(t, int64(0), destination.chunks[0].FirstRowIndex)
}

func TestRunEmptySource(t *testing.T) {
	destination := &memoryDestination{}
	ingestor := newTestIngestor(t, writeTripCSV(t, 0), 2, destination)

	_, err := ingestor.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contains no rows")
	assert.Equal(t, 0, destination.createCalls)
}

func TestRunCoercionFailureKeepsEarlierChunks(t *testing.T) {
	content := "id,distance,pickup_time,flag\n" +
		"0,1.0,2021-01-01,N\n" +
		"1,1.0,2021-01-01,N\n" +
		"broken,1.0,2021-01-01,N\n"
	path := filepath.Join(t.TempDir(), "trips.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	destination := &memoryDestination{}
	ingestor := newTestIngestor(t, path, 2, destination)

	status, err := ingestor.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot coerce")

	// The first chunk made it to the destination and stays there.
	assert.Equal(t, int64(2), status.RowsWritten)
	assert.Equal(t, int64(1), status.ChunksWritten)
	require.Len(t, destination.chunks, 1)
}

func TestRunAppendFailure(t *testing.T) {
	destination := &memoryDestination{appendErr: fmt.Errorf("connection reset")}
	ingestor := newTestIngestor(t, writeTripCSV(t, 5), 2, destination)

	status, err := ingestor.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, int64(0), status.RowsWritten)
	assert.True(t, destination.closed)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	destination := &memoryDestination{}
	ingestor := newTestIngestor(t, writeTripCSV(t, 5), 2, destination)

	_, err := ingestor.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, destination.chunks)
}
