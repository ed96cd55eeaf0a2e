package loader

import (
	"fmt"

	"github.com/csvload/csvload/destinations"
	"github.com/csvload/csvload/schema"
	"github.com/csvload/csvload/source"
	"github.com/csvload/csvload/utils"
)

// SetupIngestor resolves a named connection from the config file into a
// configured Ingestor.
func SetupIngestor(configPath, connection string) (*Ingestor, error) {
	config, err := utils.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	src, destination, err := utils.GetConnectionDetails(config, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to read connection: %w", err)
	}

	dataSchema, err := BuildSchema(src)
	if err != nil {
		return nil, err
	}

	var dest destinations.Destination
	switch destination.Type {
	case "big_query":
		bigQueryDest := destinations.NewBigQuery(destinations.BigQueryConfig{
			ProjectId:  destination.ProjectID,
			DatasetId:  destination.DatasetID,
			TableId:    destination.TableID,
			BucketName: destination.BucketName,
		}, dataSchema)
		dest = &bigQueryDest
	case "postgres":
		postgresDest := destinations.NewPostgres(destinations.PostgresConfig{
			ConnectionUrl:  destination.ConnectionURL,
			TableName:      destination.TableName,
			RowInsertLimit: destination.RowInsertLimit,
		})
		dest = &postgresDest
	default:
		return nil, fmt.Errorf("destination type not supported: %v", destination.Type)
	}

	chunkSize := src.ChunkSize
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}

	ingestorConfig := Config{
		ConnectionName: connection,
		Source: source.Config{
			Location:  src.URL,
			ChunkSize: chunkSize,
		},
		Schema:            dataSchema,
		TelemetryDisabled: config.TelemetryDisabled,
	}

	return NewIngestor(ingestorConfig, dest), nil
}

// BuildSchema maps a configured source onto a declared schema.
func BuildSchema(src utils.Source) (schema.DataSchema, error) {
	switch src.Schema {
	case "yellow_taxi", "":
		return schema.YellowTaxi{}, nil
	case "table":
		columns := make([]schema.Column, 0, len(src.Columns))
		for _, column := range src.Columns {
			columnType, err := schema.ParseColumnType(column.Type)
			if err != nil {
				return nil, fmt.Errorf("source %s: %w", src.Name, err)
			}
			columns = append(columns, schema.Column{Name: column.Name, Type: columnType})
		}
		table, err := schema.NewTable(src.Name, columns)
		if err != nil {
			return nil, err
		}
		return table, nil
	default:
		return nil, fmt.Errorf("source schema not supported: %v", src.Schema)
	}
}
