package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/efactura-reconciler/internal/logger"
	"github.com/rezonia/efactura-reconciler/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for reconciling documents.

The API provides endpoints for:
  - POST /api/v1/product-summary  - Reconciled rows of an XML or ZIP body
  - POST /api/v1/summary          - Summary rows of an XML or ZIP body
  - POST /api/v1/info             - Format, outline and attachments of a file
  - GET  /api/v1/schema           - JSON Schema of the rows
  - GET  /health                  - Health check

product-summary and summary accept the query parameters invoice_number,
supplier, start_date and end_date.

Examples:
  # Start server on the configured address (HTTP_ADDRESS, default :8080)
  efactura-reconciler serve

  # Start on a custom port in debug mode
  efactura-reconciler serve --address :9090 --debug`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (env: HTTP_ADDRESS)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 5*time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serverAddr
	if addr == "" {
		addr = appConfig.HTTPAddress
	}

	config := &server.Config{
		Address:      addr,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Debug:        serverDebug,
	}

	srv := server.NewServer(config,
		server.WithPipeline(newPipeline()),
		server.WithLogger(logger.WithComponent("server")),
	)
	return srv.Run(cmd.Context())
}
