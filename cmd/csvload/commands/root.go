package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/csvload/csvload/utils"
)

var (
	configPath string
	connection string
	logger     = utils.LoadLogger("cmd")
)

var rootCmd = &cobra.Command{
	Use:           "csvload",
	Short:         "csvload",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		panic(fmt.Errorf("failed to execute root command: %w", err))
	}
}
