package cmd

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chatloom/chatloom/internal"
	"github.com/chatloom/chatloom/internal/config"
)

var (
	verbose bool
	dbPath  string
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatloom",
	Short: "Persistent multi-thread chat against an LLM provider",
	Long: `chatloom stores multi-turn conversations in a local SQLite database,
names them from their first message, and resumes them across sessions.

Conversations can be driven from the terminal or through the HTTP API that
backs the web UI. Replies stream incrementally in both cases.

Quick Start:
  chatloom serve                  # Start the HTTP API for the web UI
  chatloom chat                   # Chat interactively in the terminal
  chatloom list                   # List stored conversations
  chatloom show <id>              # Replay a conversation
  chatloom export --format md     # Export conversations as Markdown`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetupLogging(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the conversation database (default from CHATLOOM_DB)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// openStore loads config, opens the database and runs the migration. The
// --db flag overrides the configured path.
func openStore() (*config.Config, *sql.DB, *internal.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}

	db, err := internal.OpenDatabase(cfg.DatabasePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := internal.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return cfg, db, internal.NewStore(db), nil
}
