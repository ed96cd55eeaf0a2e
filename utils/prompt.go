package utils

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func PromptConfirm(prompt string) bool {
	answer := ""
	fmt.Printf("\u001B[36m%s\u001B[0m", prompt)
	if _, err := fmt.Scan(&answer); err != nil {
		logger.Error().Str("err", err.Error()).Msg("failed to read user input")
		return false
	}
	return strings.ToLower(answer) == "y"
}

func PromptDropdown(prompt string, options []string) string {
	fmt.Println(prompt)
	for i, option := range options {
		fmt.Printf("%d: %s\n", i+1, option)
	}
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("\033[36mSelect option [1-%v]: \033[0m", len(options))
		input, _ := reader.ReadString('\n')
		choice, err := strconv.Atoi(strings.TrimSpace(input))
		if err == nil && choice > 0 && choice <= len(options) {
			return options[choice-1]
		}
		fmt.Println("Invalid choice, please try again.")
	}
}

func PromptInput(prompt string) string {
	var input string
	for {
		fmt.Print(prompt)
		reader := bufio.NewReader(os.Stdin)
		rawInput, _ := reader.ReadString('\n')
		input = strings.TrimSpace(rawInput)
		if input != "" {
			break
		}
		fmt.Println("Input cannot be empty. Please try again.")
	}
	return input
}

func PromptInputWithDefault(prompt string, defaultValue string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultValue
	}
	return input
}

func PromptChunkSize(prompt string, defaultValue string) string {
	for {
		input := PromptInputWithDefault(prompt, defaultValue)
		size, err := strconv.Atoi(input)
		if err == nil && size > 0 {
			return input
		}
		fmt.Println("Chunk size must be a positive integer. Please try again.")
	}
}

// SelectSource lets the user pick one of the sources already present in the
// config node, or "custom" to create a new one.
func SelectSource(configNode *yaml.Node) string {
	var sourcesNode *yaml.Node
	for i, node := range configNode.Content[0].Content {
		if node.Value == "sources" {
			sourcesNode = configNode.Content[0].Content[i+1]
			break
		}
	}

	options := []string{"custom"}
	if sourcesNode != nil {
		for _, entry := range sourcesNode.Content {
			if name := GetNodeValue(*entry, "name"); name != "" {
				options = append(options, name)
			}
		}
	}

	return PromptDropdown("\033[36mSelect source: \033[0m", options)
}
