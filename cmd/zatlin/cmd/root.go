package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/b4fun/zatlin-go/internal/config"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	cfgFile   string
	verbose   bool
	logFormat string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "zatlin",
		Short: "Generate words from zatlin grammars",
		Long: `zatlin compiles a word grammar and draws random strings from it.

A grammar defines weighted alternatives and one generate statement:

  C = "p" | "t" | "k" 2
  V = "a" | "i"
  % C V C V - ^"k" | "tt";`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file, TOML or YAML (default: $ZATLIN_CONFIG or ./zatlin.toml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	rootCmd.AddCommand(
		newGenerateCmd(a),
		newTokensCmd(a),
		newInspectCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the zatlin command line.
func Execute() error {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	if a.verbose {
		a.cfg.Log.Level = "debug"
	}
	if cmd.Flags().Changed("log-format") {
		a.cfg.Log.Format = a.logFormat
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.logger, err = newLogger(cmd.ErrOrStderr(), a.cfg.Log)
	return err
}

func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	switch cfg.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
}

// readGrammar returns the grammar source and its display name. An inline
// source wins over a file argument; "-" or no argument reads stdin.
func readGrammar(cmd *cobra.Command, args []string, inline string) (string, string, error) {
	if inline != "" {
		return inline, "<inline>", nil
	}

	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read grammar from stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("read grammar: %w", err)
	}
	return string(data), args[0], nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}
