package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	l "github.com/csvload/csvload/loader"
	"github.com/csvload/csvload/utils"
)

var (
	all bool
)

func init() {
	syncCmd.Flags().StringVar(&configPath, "config", utils.DefaultHomePath, "set custom config path")

	syncCmd.Flags().StringVarP(&connection, "connection", "c", "", "name of the connections to load (comma separated)")

	syncCmd.Flags().BoolVarP(&all, "all", "a", false, "load all configured connections")

	syncCmd.Flags().StringVar(&metricsPort, "metrics-port", "", "serve prometheus metrics on this port during the run")

	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Load one or more configured connections once",
	Run: func(cmd *cobra.Command, args []string) {
		if connection == "" && !all {
			logger.Error().Msg("either --connection or --all is required")
			os.Exit(1)
		}

		config, err := utils.LoadConfig(configPath)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to load config")
			os.Exit(1)
		}

		var connections []string
		if all {
			c, err := utils.GetAllConnectionNames(config)
			if err != nil {
				logger.Error().Str("err", err.Error()).Msg("failed to get all connections")
				os.Exit(1)
			}
			connections = c
		} else {
			connections = strings.Split(connection, ",")
		}

		if metricsPort != "" {
			utils.StartPrometheus(metricsPort)
		}

		for i := range connections {
			c := strings.TrimSpace(connections[i])

			ingestor, err := l.SetupIngestor(configPath, c)
			if err != nil {
				logger.Error().Str("connection", c).Str("err", err.Error()).Msg("failed to set up ingestor")
				os.Exit(1)
			}

			logger.Info().Str("connection", c).Msg("starting ingestion")

			status, err := ingestor.Run(context.Background())
			if err != nil {
				logger.Error().Str("connection", c).Str("err", err.Error()).Msg("ingestion failed")
				os.Exit(1)
			}

			logger.Info().Msg(fmt.Sprintf("Finished %v! %s", c, status))
		}
	},
}
