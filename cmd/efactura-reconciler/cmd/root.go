package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rezonia/efactura-reconciler/internal/config"
	"github.com/rezonia/efactura-reconciler/internal/logger"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	logLevel     string
	downloadDir  string

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "efactura-reconciler",
	Short: "Reconcile Romanian e-Factura invoices and credit notes",
	Long: `efactura-reconciler reads UBL 2.1 invoices and credit notes downloaded from
the e-Factura system and produces per-line figures (net, VAT, discount, total)
that add up to the document totals to the cent.

Inputs are XML files or the ZIP archives delivered by the e-invoicing API.
Without arguments the download directory is scanned.

Examples:
  # Per-product rows for every document in the download directory
  efactura-reconciler product-summary

  # Rows for one supplier in March, as CSV
  efactura-reconciler product-summary --supplier "farma" --start-date 2024-03-01 --end-date 2024-03-31 -f csv

  # Payable amounts of one supplier
  efactura-reconciler summary --supplier "farma"

  # Report documents that do not reconcile
  efactura-reconciler check dlds/ --strict`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Output format (table, json, csv)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (env: LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&downloadDir, "dir", "", "Directory scanned when no paths are given (env: EFACTURA_DOWNLOAD_DIR)")
}

// initConfig loads .env and the environment, then lets flags override them
func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if verbose {
		cfg.LogLevel = zerolog.LevelDebugValue
	}
	if downloadDir != "" {
		cfg.DownloadDir = downloadDir
	}

	switch outputFormat {
	case formatTable, formatJSON, formatCSV:
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}

	if err := logger.Setup(cfg.LoggerConfig()); err != nil {
		return err
	}
	log.Debug().Str("dir", cfg.DownloadDir).Int("workers", cfg.Workers).Msg("configuration loaded")

	appConfig = cfg
	return nil
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
