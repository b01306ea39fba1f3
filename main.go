package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gallery-manifest",
	Short: "Build the photo manifest for the static gallery",
	Long: `Scans the originals directory, generates missing JPEG previews,
reads EXIF capture data, reconciles the hand-edited photo sidecar and writes
the manifest the gallery renders from.

Settings come from the environment (.env.local and .env are loaded first);
flags override the environment.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		zap.ReplaceGlobals(logger)
		loadDotEnv(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runBuild,
}

// buildCmd is the explicit form of the default root action.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate previews and write the sidecar and manifest",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

// loadDotEnv loads .env.local and then .env. Variables already set win.
func loadDotEnv(log *zap.Logger) {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil {
			log.Info("no env file loaded", zap.String("file", name), zap.Error(err))
		}
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	registerBuildFlags(rootCmd)
	registerBuildFlags(buildCmd)
	rootCmd.AddCommand(buildCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of runs to show")
	historyCmd.Flags().StringVar(&buildFlags.ledger, "ledger", "", "Build ledger database (overrides BUILD_LEDGER_PATH)")
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
