package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"

	l "github.com/csvload/csvload/loader"
	"github.com/csvload/csvload/utils"
)

var (
	interval float64
)

func init() {
	scheduleCmd.Flags().StringVar(&configPath, "config", utils.DefaultHomePath, "set custom config path")

	scheduleCmd.Flags().StringVarP(&connection, "connection", "c", "", "name of the connection to load on a schedule")
	if err := scheduleCmd.MarkFlagRequired("connection"); err != nil {
		panic(fmt.Errorf("flag 'connection' should be required: %w", err))
	}

	scheduleCmd.Flags().Float64Var(&interval, "interval", 0, "run every N hours instead of the connection's cron expression")

	scheduleCmd.Flags().StringVar(&metricsPort, "metrics-port", "", "serve prometheus metrics on this port")

	rootCmd.AddCommand(scheduleCmd)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run a supervised periodic ingestion",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := utils.LoadConfig(configPath)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to load config")
			os.Exit(1)
		}

		var cronExpression string
		for _, c := range config.Connections {
			if c.Name == connection {
				cronExpression = c.Cron
			}
		}

		var definition gocron.JobDefinition
		switch {
		case interval > 0:
			definition = gocron.DurationJob(time.Duration(interval * float64(time.Hour)))
			logger.Info().Str("connection", connection).Float64("interval_hours", interval).Msg("scheduling ingestion")
		case cronExpression != "":
			definition = gocron.CronJob(cronExpression, false)
			logger.Info().Str("connection", connection).Str("cron", cronExpression).Msg("scheduling ingestion")
		default:
			logger.Error().Str("connection", connection).Msg("connection has no cron expression; set one or pass --interval")
			os.Exit(1)
		}

		if metricsPort != "" {
			utils.StartPrometheus(metricsPort)
		}

		scheduler, err := gocron.NewScheduler()
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to create scheduler")
			os.Exit(1)
		}

		_, err = scheduler.NewJob(
			definition,
			gocron.NewTask(func() {
				ingestor, err := l.SetupIngestor(configPath, connection)
				if err != nil {
					logger.Error().Str("connection", connection).Str("err", err.Error()).Msg("failed to set up ingestor")
					return
				}

				status, err := ingestor.Run(context.Background())
				if err != nil {
					logger.Error().Str("connection", connection).Str("err", err.Error()).Msg("scheduled ingestion failed")
					return
				}

				logger.Info().Msg(fmt.Sprintf("Finished %v! %s", connection, status))
			}),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to schedule job")
			os.Exit(1)
		}

		scheduler.Start()

		shutdownChannel := make(chan os.Signal, 1)
		signal.Notify(shutdownChannel, syscall.SIGINT, syscall.SIGTERM)
		<-shutdownChannel

		logger.Info().Msg("Exiting...")
		if err := scheduler.Shutdown(); err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to shut down scheduler")
			os.Exit(1)
		}
	},
}
