package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// readInput reads messages from the named file, or from stdin when the
// argument is missing or "-".
func readInput(cmd *cobra.Command, args []string) ([]string, error) {
	var (
		content []byte
		err     error
	)
	if len(args) == 0 || args[0] == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		content, err = os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
	}
	return parseMessages(content)
}

// parseMessages accepts a JSON array of strings or one message per line.
// Blank lines are skipped.
func parseMessages(content []byte) ([]string, error) {
	text := strings.TrimSpace(string(content))
	if strings.HasPrefix(text, "[") {
		var messages []string
		if err := json.Unmarshal([]byte(text), &messages); err != nil {
			return nil, fmt.Errorf("invalid JSON message array: %w", err)
		}
		return messages, nil
	}

	messages := []string{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			messages = append(messages, line)
		}
	}
	return messages, nil
}
