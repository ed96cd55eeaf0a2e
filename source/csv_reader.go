package source

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/csvload/csvload/schema"
)

// timestampLayouts are tried in order when coercing a timestamp cell.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ChunkedReader yields successive coerced chunks of at most ChunkSize rows
// from a delimited source. It is lazy, finite and non-restartable: rows are
// read from the wire as chunks are requested, never eagerly.
type ChunkedReader struct {
	config Config

	layout   []schema.Column
	csv      *csv.Reader
	closers  []func() error
	rowIndex int64
	done     bool
}

// NewChunkedReader opens the source, transparently decompresses it, reads
// the header and fixes the layout: header columns declared in the schema
// take their declared type, undeclared header columns pass through as
// strings, and a declared column missing from the header is an error.
func NewChunkedReader(config Config, dataSchema schema.DataSchema) (*ChunkedReader, error) {
	if config.ChunkSize < 1 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", config.ChunkSize)
	}

	raw, closers, err := open(config.Location)
	if err != nil {
		return nil, err
	}

	reader := &ChunkedReader{
		config:  config,
		closers: closers,
	}

	decompressed, cleanup, err := decompress(raw, config.Location)
	if err != nil {
		_ = reader.Close()
		return nil, err
	}
	if cleanup != nil {
		reader.closers = append(reader.closers, cleanup)
	}

	reader.csv = csv.NewReader(bufio.NewReader(decompressed))
	header, err := reader.csv.Read()
	if err != nil {
		_ = reader.Close()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("source %s is empty", config.Location)
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", config.Location, err)
	}

	declared := make(map[string]schema.ColumnType, len(dataSchema.Columns()))
	for _, col := range dataSchema.Columns() {
		declared[col.Name] = col.Type
	}

	layout := make([]schema.Column, 0, len(header))
	for _, name := range header {
		if columnType, ok := declared[name]; ok {
			layout = append(layout, schema.Column{Name: name, Type: columnType})
		} else {
			layout = append(layout, schema.Column{Name: name, Type: schema.ColumnString})
		}
	}
	for _, col := range dataSchema.Columns() {
		if !headerContains(header, col.Name) {
			_ = reader.Close()
			return nil, fmt.Errorf("declared column %q not present in source %s", col.Name, config.Location)
		}
	}

	reader.layout = layout
	return reader, nil
}

// Layout is the effective ordered column list, fixed at open time. The
// destination table's shape is derived from it.
func (r *ChunkedReader) Layout() []schema.Column {
	return r.layout
}

// Next returns the next chunk in source order, or io.EOF after the last one.
// Every chunk except possibly the last has exactly ChunkSize rows. Any parse
// or coercion error is fatal to the run.
func (r *ChunkedReader) Next() (*Chunk, error) {
	if r.done {
		return nil, io.EOF
	}

	rows := make([][]interface{}, 0, r.config.ChunkSize)
	firstRowIndex := r.rowIndex

	for len(rows) < r.config.ChunkSize {
		record, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			r.done = true
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", r.rowIndex, err)
		}

		row, err := r.coerceRow(record)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
		r.rowIndex++
	}

	if len(rows) == 0 {
		return nil, io.EOF
	}

	return &Chunk{Rows: rows, FirstRowIndex: firstRowIndex}, nil
}

func (r *ChunkedReader) coerceRow(record []string) ([]interface{}, error) {
	row := make([]interface{}, len(r.layout))
	for i, cell := range record {
		// The empty cell is NULL for every column type.
		if cell == "" {
			row[i] = nil
			continue
		}

		switch r.layout[i].Type {
		case schema.ColumnInteger:
			value, err := strconv.ParseInt(cell, 10, 64)
			if err != nil {
				return nil, r.coercionError(i, cell, "integer")
			}
			row[i] = value
		case schema.ColumnFloat:
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, r.coercionError(i, cell, "float")
			}
			row[i] = value
		case schema.ColumnTimestamp:
			value, err := parseTimestamp(cell)
			if err != nil {
				return nil, r.coercionError(i, cell, "timestamp")
			}
			row[i] = value
		default:
			row[i] = cell
		}
	}
	return row, nil
}

func (r *ChunkedReader) coercionError(column int, cell, target string) error {
	return fmt.Errorf("row %d, column %q: cannot coerce %q to %s",
		r.rowIndex, r.layout[column].Name, cell, target)
}

func (r *ChunkedReader) Close() error {
	var closeErr error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && closeErr == nil {
			closeErr = err
		}
	}
	r.closers = nil
	return closeErr
}

func parseTimestamp(cell string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		value, err := time.Parse(layout, cell)
		if err == nil {
			return value, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func open(location string) (io.Reader, []func() error, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		response, err := http.Get(location)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch %s: %w", location, err)
		}
		if response.StatusCode != http.StatusOK {
			_ = response.Body.Close()
			return nil, nil, fmt.Errorf("failed to fetch %s: status code %d", location, response.StatusCode)
		}
		return response.Body, []func() error{response.Body.Close}, nil
	}

	file, err := os.Open(location)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", location, err)
	}
	return file, []func() error{file.Close}, nil
}

// decompress wraps the raw stream based on the location's extension. The
// query string of a URL is ignored for detection.
func decompress(raw io.Reader, location string) (io.Reader, func() error, error) {
	path := strings.ToLower(location)
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		gzipReader, err := gzip.NewReader(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open gzip stream of %s: %w", location, err)
		}
		return gzipReader, gzipReader.Close, nil
	case strings.HasSuffix(path, ".bz2"):
		return bzip2.NewReader(raw), nil, nil
	case strings.HasSuffix(path, ".zst"), strings.HasSuffix(path, ".zstd"):
		zstdReader, err := zstd.NewReader(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open zstd stream of %s: %w", location, err)
		}
		return zstdReader, func() error { zstdReader.Close(); return nil }, nil
	default:
		return raw, nil, nil
	}
}

func headerContains(header []string, name string) bool {
	for _, column := range header {
		if column == name {
			return true
		}
	}
	return false
}
