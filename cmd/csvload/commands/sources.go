package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/csvload/csvload/utils"
)

func init() {
	sourcesCmd.Flags().StringVar(&configPath, "config", utils.DefaultHomePath, "set custom config path")

	sourcesCmd.AddCommand(sourcesAddCmd)
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesRemoveCmd)

	rootCmd.AddCommand(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:     "sources",
	Short:   "Add or remove a source or list all",
	Aliases: []string{"s"},
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new source",
	Run: func(cmd *cobra.Command, args []string) {
		configNode, err := utils.LoadConfigWithComments(configPath)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to load config")
			return
		}

		newSource := utils.CreateSourceEntry()
		utils.AddNodeToConfig(configNode, "sources", &newSource)

		if err := utils.SaveConfigWithComments(configPath, configNode); err != nil {
			logger.Error().Str("err", err.Error()).Msg("error saving config")
			return
		}

		logger.Info().Msg("Source added successfully!")
	},
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all specified sources",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := utils.LoadConfig(configPath)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to load config")
			return
		}

		if len(config.Sources) > 0 {
			columnOffset := 2
			maxNameLen, maxURLLen, maxSchemaLen, maxChunkSizeLen := len("Name"), len("URL"), len("Schema"), len("ChunkSize")
			for _, source := range config.Sources {
				maxNameLen = max(maxNameLen, len(source.Name)) + columnOffset
				maxURLLen = max(maxURLLen, len(source.URL)) + columnOffset
				maxSchemaLen = max(maxSchemaLen, len(source.Schema)) + columnOffset
				maxChunkSizeLen = max(maxChunkSizeLen, len(fmt.Sprint(source.ChunkSize)))
			}

			fmt.Printf("\033[36m%-*s %-*s %-*s %-*s\033[0m\n", maxNameLen, "Name", maxURLLen, "URL", maxSchemaLen, "Schema", maxChunkSizeLen, "ChunkSize")
			for _, source := range config.Sources {
				fmt.Printf("%-*s %-*s %-*s %-*d\n", maxNameLen, source.Name, maxURLLen, source.URL, maxSchemaLen, source.Schema, maxChunkSizeLen, source.ChunkSize)
			}
		} else {
			fmt.Println("No sources defined.")
		}
	},
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove [source name]",
	Short: "Remove a source by name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configNode, err := utils.LoadConfigWithComments(configPath)
		if err != nil {
			logger.Error().Str("err", err.Error()).Msg("failed to load config")
			return
		}

		sourceName := args[0]

		// Find the sources node
		var sourcesNode *yaml.Node
		for i, node := range configNode.Content[0].Content {
			if node.Value == "sources" {
				sourcesNode = configNode.Content[0].Content[i+1]
				break
			}
		}

		// Find and remove the source by name
		if sourcesNode != nil {
			for i := 0; i < len(sourcesNode.Content); i++ {
				source := sourcesNode.Content[i]
				for j := 0; j < len(source.Content); j += 2 {
					if source.Content[j].Value == "name" && source.Content[j+1].Value == sourceName {
						sourcesNode.Content = append(sourcesNode.Content[:i], sourcesNode.Content[i+1:]...)
						if err := utils.SaveConfigWithComments(configPath, configNode); err != nil {
							logger.Error().Str("err", err.Error()).Msg("error saving config")
							return
						}
						logger.Info().Msg("Source removed successfully!")
						return
					}
				}
			}
			logger.Error().Msg("Source not found.")
		} else {
			logger.Info().Msg("No sources defined.")
		}
	},
}
