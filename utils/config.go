package utils

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var (
	logger = LoadLogger("config")
)

//go:embed config_template.yml
var defaultConfig []byte

func AddNodeToConfig(configNode *yaml.Node, key string, newNode *yaml.Node) {
	var targetNode *yaml.Node
	for i, node := range configNode.Content[0].Content {
		if node.Value == key {
			targetNode = configNode.Content[0].Content[i+1]
			break
		}
	}

	if targetNode != nil {
		targetNode.Content = append(targetNode.Content, newNode)
	} else {
		configNode.Content[0].Content = append(configNode.Content[0].Content, &yaml.Node{
			Kind:    yaml.ScalarNode,
			Value:   key,
			Tag:     "!!seq",
			Content: []*yaml.Node{newNode},
		})
	}
}

func ClearConfig(configPath, section string, namesToRemove []string) error {
	configNode, err := LoadConfigWithComments(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Find the target section in the config
	var targetNode *yaml.Node
	for i, node := range configNode.Content[0].Content {
		if node.Value == section {
			targetNode = configNode.Content[0].Content[i+1]
			break
		}
	}

	if targetNode == nil {
		return fmt.Errorf("section %s not found in the config", section)
	}

	// Filter out entries that match names in namesToRemove
	var filteredContent []*yaml.Node
	for _, entryNode := range targetNode.Content {
		name := GetNodeValue(*entryNode, "name")
		if !Contains(namesToRemove, name) {
			filteredContent = append(filteredContent, entryNode)
		}
	}

	// Update the target section with filtered content
	targetNode.Content = filteredContent

	// Save the modified config back to the file
	if err := SaveConfigWithComments(configPath, configNode); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}

	return nil
}

func CreateConnectionEntry(connectionName, sourceName, destName string) yaml.Node {
	return yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "name"},
			{Kind: yaml.ScalarNode, Value: connectionName},
			{Kind: yaml.ScalarNode, Value: "source"},
			{Kind: yaml.ScalarNode, Value: sourceName},
			{Kind: yaml.ScalarNode, Value: "destination"},
			{Kind: yaml.ScalarNode, Value: destName},
		},
	}
}

func CreateDestinationEntry() yaml.Node {
	destinationType := PromptDropdown("\033[36mAvailable options: \033[0m", []string{"big_query", "postgres"})

	switch destinationType {
	case "big_query":
		return yaml.Node{
			Kind: yaml.MappingNode,
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Value: "name"},
				{Kind: yaml.ScalarNode, Value: PromptInput("\033[36mEnter Destination name: \033[0m")},
				{Kind: yaml.ScalarNode, Value: "type"},
				{Kind: yaml.ScalarNode, Value: "big_query"},
				{Kind: yaml.ScalarNode, Value: "project_id"},
				{Kind: yaml.ScalarNode, Value: PromptInput("\033[36mEnter Project ID: \033[0m")},
				{Kind: yaml.ScalarNode, Value: "dataset_id"},
				{Kind: yaml.ScalarNode, Value: PromptInput("\033[36mEnter Dataset ID: \033[0m")},
				{Kind: yaml.ScalarNode, Value: "table_id"},
				{Kind: yaml.ScalarNode, Value: PromptInput("\033[36mEnter Table ID: \033[0m")},
				{Kind: yaml.ScalarNode, Value: "bucket_name"},
				{Kind: yaml.ScalarNode, Value: PromptInput("\033[36mEnter staging Bucket Name: \033[0m")},
			},
		}
	case "postgres":
		return yaml.Node{
			Kind: yaml.MappingNode,
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Value: "name"},
				{Kind: yaml.ScalarNode, Value: PromptInput("\033[36mEnter Destination name: \033[0m")},
				{Kind: yaml.ScalarNode, Value: "type"},
				{Kind: yaml.ScalarNode, Value: "postgres"},
				{Kind: yaml.ScalarNode, Value: "connection_url"},
				{Kind: yaml.ScalarNode, Value: PromptInput("\033[36mEnter Connection URL: \033[0m")},
				{Kind: yaml.ScalarNode, Value: "table_name"},
				{Kind: yaml.ScalarNode, Value: PromptInput("\033[36mEnter Table name: \033[0m")},
			},
		}
	default:
		return yaml.Node{}
	}
}

func CreateSourceEntry() yaml.Node {
	return yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "name"},
			{Kind: yaml.ScalarNode, Value: PromptInput("\033[36mEnter Source name: \033[0m")},
			{Kind: yaml.ScalarNode, Value: "url"},
			{Kind: yaml.ScalarNode, Value: PromptInput("\033[36mEnter CSV URL or path: \033[0m")},
			{Kind: yaml.ScalarNode, Value: "chunk_size"},
			{Kind: yaml.ScalarNode, Value: PromptChunkSize("\033[36mEnter chunk size [default 100000]: \033[0m", "100000")},
			{Kind: yaml.ScalarNode, Value: "schema"},
			{Kind: yaml.ScalarNode, Value: PromptDropdown("\033[36mSelect schema: \033[0m", []string{"yellow_taxi", "table"})},
		},
	}
}

func GetAllConnectionNames(config *Config) ([]string, error) {
	var names []string
	for _, connection := range config.Connections {
		names = append(names, connection.Name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no connections defined")
	}
	return names, nil
}

func GetConnectionDetails(config *Config, connectionName string) (Source, Destination, error) {
	var source Source
	var destination Destination
	var connectionFound, sourceFound, destinationFound bool
	var sourceName, destinationName string

	for _, connection := range config.Connections {
		if connection.Name == connectionName {
			connectionFound = true
			sourceName = connection.Source
			destinationName = connection.Destination
			for _, src := range config.Sources {
				if src.Name == sourceName {
					source = src
					sourceFound = true
					break
				}
			}
			for _, dst := range config.Destinations {
				if dst.Name == destinationName {
					destination = dst
					destinationFound = true
					break
				}
			}
		}
	}

	if !connectionFound {
		return Source{}, Destination{}, fmt.Errorf("connection %s not found", connectionName)
	}

	if !sourceFound {
		return Source{}, Destination{}, fmt.Errorf("source %s not found for connection %s", sourceName, connectionName)
	}

	if !destinationFound {
		return Source{}, Destination{}, fmt.Errorf("destination %s not found for connection %s", destinationName, connectionName)
	}

	return source, destination, nil
}

func GetNodeValue(node yaml.Node, key string) string {
	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1].Value
		}
	}
	return ""
}

func InitConfig(configPath string) error {
	// Create default config if config doesn't exist
	if _, err := os.Stat(configPath); err != nil {
		logger.Info().Str("path", configPath).Msg("creating default config")

		dirPath := filepath.Dir(configPath)
		if err = os.MkdirAll(dirPath, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create directories %s: %w", dirPath, err)
		}

		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("failed to create config file %s: %w", configPath, err)
		}
		defer f.Close()

		if _, err = f.Write(defaultConfig); err != nil {
			return fmt.Errorf("failed to write default config: %w", err)
		}
		return nil
	}
	return fmt.Errorf("already initialized")
}

func LoadConfig(configPath string) (*Config, error) {
	// Create default config if config doesn't exist
	if _, err := os.Stat(configPath); err != nil {
		logger.Info().Str("path", configPath).Msg("could not find config; creating with default values")

		dirPath := filepath.Dir(configPath)
		if err = os.MkdirAll(dirPath, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create directories %s: %w", dirPath, err)
		}

		f, err := os.Create(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create config file %s: %w", configPath, err)
		}
		defer f.Close()

		if _, err = f.Write(defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		return nil, fmt.Errorf("created default config, restart process")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	setLogLevel(config.LogLevel)

	return &config, nil
}

func LoadConfigWithComments(configPath string) (*yaml.Node, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}

	return &node, nil
}

func SaveConfigWithComments(path string, node *yaml.Node) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	defer encoder.Close()

	if err := encoder.Encode(node); err != nil {
		return err
	}

	return nil
}

func setLogLevel(logLevel string) {
	switch logLevel {
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "none":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}
}
