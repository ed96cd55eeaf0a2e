package loader

import (
	"fmt"
	"time"
)

type Status struct {
	RowsWritten   int64
	ChunksWritten int64
	Duration      time.Duration
}

func (s Status) String() string {
	return fmt.Sprintf(
		"rows: %d, chunks: %d, took: %s",
		s.RowsWritten,
		s.ChunksWritten,
		s.Duration.Round(time.Millisecond),
	)
}
