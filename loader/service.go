package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/csvload/csvload/source"
	"github.com/csvload/csvload/utils"
)

var (
	logger = utils.LoadLogger("loader")
)

// Run executes one ingestion: open the source, create the destination table
// from the first chunk's layout, then append every chunk in source order.
// Any error aborts the run; chunks appended before the failure stay in the
// destination. The returned Status reflects what was actually written.
func (ingestor *Ingestor) Run(ctx context.Context) (Status, error) {
	start := time.Now()
	label := ingestor.config.ConnectionName

	logger.Debug().Msg(fmt.Sprintf("SourceConfig: %#v", ingestor.config.Source))

	utils.PrometheusIngestStarted.WithLabelValues(label).Inc()
	utils.TrackIngestEvent(ingestor.config.TelemetryDisabled, "ingest_started", map[string]interface{}{
		"schema":     ingestor.config.Schema.Name(),
		"chunk_size": ingestor.config.Source.ChunkSize,
	})

	if err := ingestor.destination.Connect(); err != nil {
		return Status{}, err
	}
	defer ingestor.destination.Close()

	reader, err := source.NewChunkedReader(ingestor.config.Source, ingestor.config.Schema)
	if err != nil {
		return Status{}, err
	}
	defer reader.Close()

	chunk, err := reader.Next()
	if errors.Is(err, io.EOF) {
		return Status{}, fmt.Errorf("source %s contains no rows", ingestor.config.Source.Location)
	}
	if err != nil {
		return Status{}, err
	}

	// The table shape is fixed by the first chunk and never altered by
	// later ones.
	if err := ingestor.destination.CreateTable(reader.Layout()); err != nil {
		return Status{}, err
	}

	status := Status{}
	for {
		if ctx.Err() != nil {
			status.Duration = time.Since(start)
			return status, ctx.Err()
		}

		if err := ingestor.destination.AppendChunk(chunk); err != nil {
			status.Duration = time.Since(start)
			return status, err
		}
		status.RowsWritten += int64(chunk.RowCount())
		status.ChunksWritten++

		utils.PrometheusRowsIngested.WithLabelValues(label).Add(float64(chunk.RowCount()))
		utils.PrometheusChunksIngested.WithLabelValues(label).Inc()

		logger.Info().
			Int("rows", chunk.RowCount()).
			Int64("total_rows", status.RowsWritten).
			Int64("chunks", status.ChunksWritten).
			Msg("chunk written")

		chunk, err = reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			status.Duration = time.Since(start)
			return status, err
		}
	}

	status.Duration = time.Since(start)

	utils.PrometheusIngestFinished.WithLabelValues(label).Inc()
	utils.PrometheusLastIngestDuration.WithLabelValues(label).Set(status.Duration.Seconds())
	utils.PrometheusLastIngestRows.WithLabelValues(label).Set(float64(status.RowsWritten))
	utils.TrackIngestEvent(ingestor.config.TelemetryDisabled, "ingest_finished", map[string]interface{}{
		"rows":     status.RowsWritten,
		"chunks":   status.ChunksWritten,
		"duration": status.Duration.Seconds(),
	})

	return status, nil
}
