// Package main provides the CLI entrypoint for typecard.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typecard/internal/card"
	"github.com/verte-zerg/typecard/internal/config"
	"github.com/verte-zerg/typecard/internal/logging"
	"github.com/verte-zerg/typecard/internal/model"
	"github.com/verte-zerg/typecard/internal/server"
	"github.com/verte-zerg/typecard/internal/share"
	"github.com/verte-zerg/typecard/internal/stats"
	"github.com/verte-zerg/typecard/internal/tui"
)

const (
	defaultAddr     = ":8080"
	defaultLogLevel = "info"
	defaultCardOut  = "card.png"
)

var (
	typeComposeURL string

	serveAddr     string
	serveBaseURL  string
	serveLogLevel string

	cardState    string
	cardWPM      string
	cardAccuracy string
	cardOut      string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typecard",
		Short:         "Typing speed test with shareable frame cards",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runTypeCmd,
	}

	rootCmd.Flags().StringVar(&typeComposeURL, "compose-url", share.DefaultComposeURL, "compose endpoint used by the share action")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCardCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runTypeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "compose-url", &typeComposeURL, fileCfg.Share.ComposeURL)

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the typing test needs an interactive terminal")
	}

	cfg := model.Config{
		Sample:     model.SampleText,
		ComposeURL: typeComposeURL,
	}
	m := tui.NewModel(cfg, share.NewBrowserOpener())
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if st, ok := m.Result(); ok {
		if err := stats.RenderSummary(cmd.OutOrStdout(), st); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the frame and card endpoints",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&serveBaseURL, "base-url", "", "public base URL (overrides "+config.BaseURLEnv+")")
	cmd.Flags().StringVar(&serveLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	applyStringConfig(cmd, "log-level", &serveLogLevel, fileCfg.Server.LogLevel)

	level, err := logging.ParseLevel(serveLogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, level)

	baseURL, err := config.ResolveBaseURL(serveBaseURL, fileCfg)
	if err != nil {
		return err
	}

	router, err := server.NewRouter(baseURL, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serving frame", "base_url", baseURL, "frame", baseURL+model.FramePath)
	return server.New(serveAddr, router, logger).Run(ctx)
}

func newCardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Render a share card to a PNG file",
		Args:  cobra.NoArgs,
		RunE:  runCardCmd,
	}
	cmd.Flags().StringVar(&cardState, "state", "", "card state (typing, challenge or empty)")
	cmd.Flags().StringVar(&cardWPM, "wpm", "", "words per minute shown on the challenge card")
	cmd.Flags().StringVar(&cardAccuracy, "accuracy", "", "accuracy shown on the challenge card")
	cmd.Flags().StringVar(&cardOut, "out", defaultCardOut, "output path")
	return cmd
}

func runCardCmd(_ *cobra.Command, _ []string) error {
	if strings.TrimSpace(cardOut) == "" {
		return fmt.Errorf("--out must not be empty")
	}
	renderer, err := card.NewRenderer()
	if err != nil {
		return err
	}
	params := model.CardParams{
		State: model.CardState(cardState),
		Carry: model.CarriedState{WPM: cardWPM, Accuracy: cardAccuracy},
	}
	if err := writeCard(cardOut, renderer, params); err != nil {
		return fmt.Errorf("failed to write %s: %w", cardOut, err)
	}
	logErrf("Wrote %s card to %s\n", card.Select(params), cardOut)
	return nil
}

func writeCard(path string, renderer *card.Renderer, params model.CardParams) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create card dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "card-*.png")
	if err != nil {
		return fmt.Errorf("failed to create temp card: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := renderer.WritePNG(tmpFile, params); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close card: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move card into place: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.CommandContext(context.Background(), parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typecard configuration
# Uncomment a value to enable it. CLI flags override config values.

[server]
# addr = %q                            # Listen address for "typecard serve"
# base-url = "https://example.com"      # Public base URL; %s and --base-url take precedence
# log-level = %q                        # debug, info, warn or error

[share]
# compose-url = %q  # Where the share action posts the summary
`,
		defaultAddr,
		config.BaseURLEnv,
		defaultLogLevel,
		share.DefaultComposeURL,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
