package loader

import (
	"github.com/csvload/csvload/destinations"
	"github.com/csvload/csvload/schema"
	"github.com/csvload/csvload/source"
)

const DefaultChunkSize = 100000

type Config struct {
	// ConnectionName labels metrics and telemetry; direct flag invocations
	// use the table name.
	ConnectionName string

	Source source.Config
	Schema schema.DataSchema

	TelemetryDisabled bool
}

type Ingestor struct {
	config      Config
	destination destinations.Destination
}

func NewIngestor(config Config, destination destinations.Destination) *Ingestor {
	return &Ingestor{
		config:      config,
		destination: destination,
	}
}
