package source

// Config locates a delimited source and sizes the read cycle.
type Config struct {
	// Location is an http(s) URL or a local file path.
	Location string

	// ChunkSize is the maximum number of rows materialized per chunk.
	// Peak memory of a run is bounded by it, not by the source size.
	ChunkSize int
}

// Chunk is one rectangular batch of coerced rows. Cell values are int64,
// float64, string, time.Time, or nil for an empty cell. Chunks are written
// and discarded; they are never retained after the append.
type Chunk struct {
	Rows [][]interface{}

	// FirstRowIndex is the zero-based position of the first row of this
	// chunk within the whole source.
	FirstRowIndex int64
}

func (c *Chunk) RowCount() int {
	return len(c.Rows)
}
