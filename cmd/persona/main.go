// Package main implements the persona CLI: local memory extraction and
// personality rewriting, plus a health check against a running personad.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/personad/internal/config"
	"github.com/fyrsmithlabs/personad/internal/extraction"
	"github.com/fyrsmithlabs/personad/internal/llm"
	"github.com/fyrsmithlabs/personad/internal/personality"
	"github.com/fyrsmithlabs/personad/internal/secrets"
)

var (
	// serverURL is the base URL for the personad HTTP server
	serverURL string
	// configPath overrides the config file location
	configPath string
	// ruleBased skips the generative backend entirely
	ruleBased bool

	transformStyle string
	replyText      string

	version = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "persona",
		Short: "Extract user memory and restyle replies",
		Long: `persona extracts preferences, emotional patterns and facts from chat
messages and rewrites replies in a personality style.

Messages are read from a file or stdin, either as a JSON array of strings
or one message per line.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "personad server URL")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/personad/config.yaml)")
	root.PersistentFlags().BoolVar(&ruleBased, "rule-based", false, "never call a generative backend")

	transformCmd := &cobra.Command{
		Use:   "transform [file|-]",
		Short: "Rewrite a reply in one personality style",
		Long: `Extract memory from messages and rewrite a reply in a personality style.

Examples:
  # Restyle with context from a chat log
  persona transform --style therapist --reply "Try a smaller batch size." chat.json

  # Without context
  echo '[]' | persona transform --style witty_friend --reply "Restart the kernel." -`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTransform,
	}
	transformCmd.Flags().StringVar(&transformStyle, "style", string(personality.DefaultStyle), "calm_mentor, witty_friend or therapist")
	transformCmd.Flags().StringVar(&replyText, "reply", "Here is a suggested plan.", "reply to restyle")

	compareCmd := &cobra.Command{
		Use:   "compare [file|-]",
		Short: "Rewrite a reply in every personality style",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCompare,
	}
	compareCmd.Flags().StringVar(&replyText, "reply", "Here is a suggested plan.", "reply to restyle")

	root.AddCommand(
		&cobra.Command{
			Use:   "extract [file|-]",
			Short: "Extract memory from chat messages",
			Long: `Extract preferences, emotional patterns and facts from chat messages.

Examples:
  persona extract chat.json
  printf 'I love Python\nMy name is Alex\n' | persona extract -`,
			Args: cobra.MaximumNArgs(1),
			RunE: runExtract,
		},
		transformCmd,
		compareCmd,
		newDemoCmd(),
		&cobra.Command{
			Use:   "health",
			Short: "Check personad server health",
			Long: `Check the health status of a running personad HTTP server.

Examples:
  persona health
  persona health --server http://localhost:9000`,
			RunE: runHealth,
		},
	)

	return root
}

func runExtract(cmd *cobra.Command, args []string) error {
	messages, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), extraction.Default.Extract(messages))
}

func runTransform(cmd *cobra.Command, args []string) error {
	messages, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	engine, err := newEngine()
	if err != nil {
		return err
	}

	memory := extraction.Default.Extract(messages)
	result := engine.Transform(cmd.Context(), replyText, transformStyle, memory)

	return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
		"extracted":            memory,
		"personality_response": result,
	})
}

func runCompare(cmd *cobra.Command, args []string) error {
	messages, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	engine, err := newEngine()
	if err != nil {
		return err
	}

	memory := extraction.Default.Extract(messages)
	comparison := engine.Compare(cmd.Context(), replyText, memory)

	return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
		"extracted_context":      memory,
		"personality_comparison": comparison,
	})
}

// newEngine builds a personality engine from config, or a rule-based one
// when --rule-based is set.
func newEngine() (*personality.Engine, error) {
	logger := zap.NewNop()
	if ruleBased {
		return personality.NewEngine(logger)
	}

	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	gen, err := llm.New(cfg.Generator.LLMConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}
	redactor, err := secrets.New(cfg.Secrets)
	if err != nil {
		return nil, fmt.Errorf("failed to create redactor: %w", err)
	}

	return personality.NewEngine(logger,
		personality.WithGenerator(gen),
		personality.WithRedactor(redactor),
		personality.WithGenerationParams(cfg.Generator.MaxTokens, cfg.Generator.Temperature),
	)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// HealthResponse matches internal/http HealthResponse
type HealthResponse struct {
	Status       string `json:"status"`
	LLMAvailable bool   `json:"llm_available"`
	Backend      string `json:"backend"`
	Timestamp    string `json:"timestamp"`
}

// runHealth handles the health command
func runHealth(cmd *cobra.Command, args []string) error {
	url := fmt.Sprintf("%s/health", serverURL)

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	var healthResp HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&healthResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Server Status: %s\n", healthResp.Status)
	fmt.Fprintf(out, "Backend:       %s\n", healthResp.Backend)
	fmt.Fprintf(out, "LLM Available: %t\n", healthResp.LLMAvailable)
	return nil
}
