package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/csvload/csvload/destinations"
	l "github.com/csvload/csvload/loader"
	"github.com/csvload/csvload/source"
	"github.com/csvload/csvload/utils"
)

const defaultDatasetURL = "https://github.com/DataTalksClub/nyc-tlc-data/releases/download/yellow/yellow_tripdata_2021-01.csv.gz"

var (
	pgUser      string
	pgPass      string
	pgHost      string
	pgPort      string
	pgDb        string
	targetTable string
	sourceURL   string
	chunkSize   int
	schemaName  string
	metricsPort string
)

func init() {
	loadCmd.Flags().StringVar(&pgUser, "pg-user", "", "postgres username")
	loadCmd.Flags().StringVar(&pgPass, "pg-pass", "", "postgres password")
	loadCmd.Flags().StringVar(&pgHost, "pg-host", "", "postgres host")
	loadCmd.Flags().StringVar(&pgPort, "pg-port", "5432", "postgres port")
	loadCmd.Flags().StringVar(&pgDb, "pg-db", "", "postgres database name")
	loadCmd.Flags().StringVar(&targetTable, "target-table", "", "table to create and load; an existing table with this name is replaced")

	for _, flag := range []string{"pg-user", "pg-pass", "pg-host", "pg-db", "target-table"} {
		if err := loadCmd.MarkFlagRequired(flag); err != nil {
			panic(fmt.Errorf("flag '%s' should be required: %w", flag, err))
		}
	}

	loadCmd.Flags().StringVar(&sourceURL, "url", defaultDatasetURL, "URL or path of the CSV file")
	loadCmd.Flags().IntVar(&chunkSize, "chunk-size", l.DefaultChunkSize, "rows per read/write cycle")
	loadCmd.Flags().StringVar(&schemaName, "schema", "yellow_taxi", "name of the declared schema")
	loadCmd.Flags().StringVar(&metricsPort, "metrics-port", "", "serve prometheus metrics on this port during the run")

	rootCmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a CSV source into a Postgres table",
	Run: func(cmd *cobra.Command, args []string) {
		dataSchema, err := l.BuildSchema(utils.Source{Name: targetTable, Schema: schemaName})
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to resolve schema")
			os.Exit(1)
		}

		connectionUrl := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
			url.QueryEscape(pgUser),
			url.QueryEscape(pgPass),
			pgHost,
			pgPort,
			pgDb,
		)

		postgresDest := destinations.NewPostgres(destinations.PostgresConfig{
			ConnectionUrl: connectionUrl,
			TableName:     targetTable,
		})

		ingestor := l.NewIngestor(l.Config{
			ConnectionName: targetTable,
			Source: source.Config{
				Location:  sourceURL,
				ChunkSize: chunkSize,
			},
			Schema: dataSchema,
		}, &postgresDest)

		if metricsPort != "" {
			utils.StartPrometheus(metricsPort)
		}

		// Required for graceful shutdown
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		shutdownChannel := make(chan os.Signal, 1)
		signal.Notify(shutdownChannel, syscall.SIGINT, syscall.SIGTERM)

		go func() {
			<-shutdownChannel
			logger.Warn().Msg("Exiting... The destination keeps the chunks written so far.")
			cancel()
		}()

		logger.Info().Str("url", sourceURL).Str("table", targetTable).Msg("starting ingestion")

		status, err := ingestor.Run(ctx)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("ingestion failed")
			os.Exit(1)
		}

		logger.Info().Msg(fmt.Sprintf("Finished ingestion! %s", status))
	},
}
