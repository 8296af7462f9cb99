// Package cmd implements the CLI commands for the terminal.
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"nlterm/internal/config"
	"nlterm/internal/display"
	"nlterm/internal/engine"
	"nlterm/internal/logger"
)

// App holds the application state shared across commands.
type App struct {
	cfg     *config.Config
	eng     *engine.Engine
	verbose bool
}

// NewApp creates a new App instance with default configuration.
func NewApp() *App {
	return &App{
		cfg: config.NewConfig(),
	}
}

// Execute runs the root command.
func Execute() {
	app := NewApp()

	rootCmd := &cobra.Command{
		Use:   "nlterm [input]",
		Short: "A terminal that takes commands or plain language",
		Long: `nlterm is a command terminal that accepts both literal commands
(dir, cd, mkdir, ping, ...) and natural language. Literal input runs
immediately; anything else is translated to a command by an external
model (OpenAI-compatible or Gemini) and then executed.

Without a translation API key it still works, accepting literal
commands only.

Examples:
  nlterm                                # Interactive console
  nlterm "show me the files here"       # One-shot natural language
  nlterm "mkdir demo"                   # One-shot literal command
  nlterm serve                          # Web front-end on :8080`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app.run(cmd, args)
		},
	}

	rootCmd.Flags().BoolVarP(&app.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().BoolVarP(&app.cfg.Render, "render", "r", false, "Render help output as markdown")
	rootCmd.Flags().StringVarP(&app.cfg.Model, "model", "m", "", "Translation model name")
	rootCmd.Flags().StringVarP(&app.cfg.Workdir, "workdir", "w", "", "Initial working directory (default: current)")
	rootCmd.Flags().StringVar(&app.cfg.Provider, "provider", "", "Translation provider: openai, gemini (default: auto-detect)")

	rootCmd.AddCommand(NewServeCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup validates configuration, configures logging, and builds the
// engine. Called by every command before doing work.
func (app *App) setup() error {
	if app.verbose {
		app.cfg.LogLevel = "debug"
	}

	if err := app.cfg.Validate(); err != nil {
		return err
	}
	logger.Configure(app.cfg.LogLevel, os.Stderr)

	eng, err := engine.NewEngine(app.cfg)
	if err != nil {
		return err
	}
	app.eng = eng
	return nil
}

func (app *App) run(cmd *cobra.Command, args []string) {
	if err := app.setup(); err != nil {
		display.ShowError(err.Error())
		os.Exit(1)
	}
	defer app.eng.Close()

	if app.cfg.Render {
		if err := display.InitRenderer(); err != nil {
			logger.Warn("failed to initialize renderer", "error", err)
		}
	}

	// One-shot mode: run the single input and exit with its status.
	if len(args) == 1 {
		sid := app.eng.NewSession()
		result := app.eng.Process(context.Background(), sid, args[0])
		if result.Resolved != "" && result.Resolved != args[0] {
			display.ShowNote("> " + result.Resolved)
		}
		display.ShowContent(result.Stdout)
		if !result.IsSuccess() {
			display.ShowError(result.Stderr)
			os.Exit(result.ExitStatus)
		}
		return
	}

	app.runConsole()
}
