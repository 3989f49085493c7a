package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/recyforge/recyforge/catalog"
	"github.com/recyforge/recyforge/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger

	// Command flags
	projectPath string
	outputPath  string
	toStdout    bool
	appScope    string
	filterExpr  string
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records build information for the version command.
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "recyforge",
	Short: "Assemble recyclarr configuration files from TRaSH catalog selections",
	Long: `recyforge merges a project file (your instances, quality profiles and
custom-format selections) with the TRaSH guide catalog caches into a
single recyclarr configuration, with scores resolved and every trash_id
annotated with its format name.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("recyforge %s (built %s)\n", version, buildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&projectPath, "project", "project.yml", "project file holding your selections")

	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the configuration and logger
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)
	return nil
}

// loadCatalog loads and indexes the catalog caches
func loadCatalog() (*catalog.Store, error) {
	store, err := catalog.Load(cfg.Catalog.FormatsPath, cfg.Catalog.TemplatesPath)
	if err != nil {
		return nil, err
	}

	meta := store.Metadata()
	logger.Debug().
		Str("generated_at", meta.GeneratedAt).
		Str("branch", meta.Branch).
		Int("total_formats", meta.TotalFormats).
		Msg("Catalog loaded")
	return store, nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; keep color only for real terminals
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
