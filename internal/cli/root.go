// Package cli provides the command-line interface for sqlsh.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/sqlsh/internal/cli/commands"
	"github.com/leapstack-labs/sqlsh/internal/cli/config"
	"github.com/leapstack-labs/sqlsh/internal/render"
	"github.com/leapstack-labs/sqlsh/internal/shell"
	"github.com/leapstack-labs/sqlsh/pkg/adapter"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sqlsh [FILENAME] [COMMAND]",
		Short: "sqlsh - interactive SQL shell",
		Long: `sqlsh is an interactive shell for SQLite and DuckDB databases.

FILENAME is the database to open (in-memory when omitted). When COMMAND is
given it is executed once and sqlsh exits; otherwise statements and
dot-commands are read from the terminal, or from standard input when it is
not a terminal. Enter ".help" at the prompt for the list of dot-commands.`,
		Example: `  # Open a database interactively
  sqlsh app.db

  # Run one query as CSV
  sqlsh -m csv --header app.db "SELECT * FROM users;"

  # Dump a database into another
  sqlsh app.db .dump | sqlsh copy.db`,
		Version: Version,
		Args:    cobra.MaximumNArgs(2),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help, version and completion commands
			switch cmd.Name() {
			case "help", "version", "completion", "__complete":
				return nil
			}

			var err error
			cfg, err = config.LoadConfig(cfgFile, cmd.Root().Flags())
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			cmd.SetContext(ctx)

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c := GetConfig(cmd.Context())
			opts := commands.ShellOptions{
				Config: c,
				Stdin:  os.Stdin,
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			}
			if len(args) > 0 {
				opts.Database = args[0]
			}
			if len(args) > 1 {
				opts.Command = args[1]
			}
			return commands.RunShell(cmd.Context(), opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default: ./sqlsh.yaml)")
	rootCmd.Flags().StringP("mode", "m", "", "Output mode ("+render.Box.String()+" by default)")
	rootCmd.Flags().StringP("init", "i", "", "Read and process FILE before the first prompt")
	rootCmd.Flags().Bool("header", false, "Turn headers on")
	rootCmd.Flags().Bool("no-header", false, "Turn headers off")
	rootCmd.Flags().BoolP("echo", "e", false, "Print inputs before execution")
	rootCmd.Flags().String("null-value", "", "Text string for NULL values")
	rootCmd.Flags().String("driver", "", "Database driver ("+config.DefaultDriver+" by default)")
	rootCmd.Flags().BoolP("verbose", "v", false, "Verbose logging")
	rootCmd.MarkFlagsMutuallyExclusive("header", "no-header")

	_ = rootCmd.RegisterFlagCompletionFunc("mode", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return render.ModeNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("driver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return adapter.ListAdapters(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit, BuildDate))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	var exit *shell.ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	msg := fmt.Sprintf("Error: %v", err)
	if style := commands.ErrorStyle(os.Stderr); style != nil {
		msg = style(msg)
	}
	fmt.Fprintln(os.Stderr, msg)
	return 1
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	// Return default config if none in context
	return &config.Config{
		Mode:           config.DefaultMode,
		Driver:         config.DefaultDriver,
		Database:       config.DefaultDatabase,
		Prompt:         config.DefaultPrompt,
		ContinuePrompt: config.DefaultContinuePrompt,
	}
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sqlsh.

To load completions:

Bash:
  $ source <(sqlsh completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sqlsh completion bash > /etc/bash_completion.d/sqlsh
  # macOS:
  $ sqlsh completion bash > $(brew --prefix)/etc/bash_completion.d/sqlsh

Zsh:
  $ sqlsh completion zsh > "${fpath[1]}/_sqlsh"

Fish:
  $ sqlsh completion fish > ~/.config/fish/completions/sqlsh.fish

PowerShell:
  PS> sqlsh completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
