package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/wattanit/wcm/internal/config"
)

// app carries what the root command loaded to its subcommands.
type app struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "wcm",
		Short: "Catalog books into a personal Baserow library",
		Long: `wcm looks a book up by ISBN or by title and author (Google Books first,
then Open Library), lets an LLM pick categories from your controlled vocabulary
and write a synopsis when the description is thin, uploads a cover and creates
the entry in your Baserow media table.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return a.load()
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "config.yaml", "Path to a YAML or TOML config file")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Verbose logging")

	cmd.AddCommand(newAddCmd(a))
	cmd.AddCommand(newCategoriesCmd(a))
	cmd.AddCommand(newBatchCmd(a))

	return cmd
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := slog.LevelInfo
	if a.verbose || cfg.App.Verbose {
		level = slog.LevelDebug
		cfg.App.Verbose = true
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Debug("config loaded", "path", a.configPath, "provider", cfg.LLM.Provider)
	a.cfg = cfg
	return nil
}
