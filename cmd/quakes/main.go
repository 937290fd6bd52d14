// Command quakes loads the earthquake and city catalogs, narrows the quakes
// through the interactive range filter and reports the populated places near
// the largest event.
package main

import (
	"fmt"
	"log/slog"
	"os"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/quake-impact/internal/config"
	"github.com/couchcryptid/quake-impact/internal/observability"
)

var (
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics

	cityPath  string
	quakePath string
)

var rootCmd = &cobra.Command{
	Use:           "quakes",
	Short:         "Earthquake impact analysis",
	Long:          "Filters an earthquake catalog by category, location, date and magnitude, then reports yearly trends and the cities inside the largest event's impact radius.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		_ = godotenv.Load()

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("cities") {
			c.CityCSVPath = cityPath
		}
		if cmd.Flags().Changed("quakes") {
			c.QuakeCSVPath = quakePath
		}
		cfg = c

		if cmd == analyzeCmd {
			// The prompt owns stdout.
			logger = observability.NewLogger(cfg, os.Stderr)
			slog.SetDefault(logger)
		} else {
			logger = sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
		}
		if metrics == nil {
			metrics = observability.NewMetrics()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cityPath, "cities", "", "city catalog CSV (overrides CITY_CSV_PATH)")
	rootCmd.PersistentFlags().StringVar(&quakePath, "quakes", "", "earthquake catalog CSV (overrides QUAKE_CSV_PATH)")

	rootCmd.AddCommand(analyzeCmd, nearbyCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed", "error", err)
		} else {
			slog.Error("command failed", "error", err)
		}
		os.Exit(1)
	}
}
