package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jthornber/smq/internal/webui"
)

var (
	serveDataDir string
	serveAddr    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve sweep output over HTTP",
	Long: `serve starts a small HTTP server over a directory of sweep runs,
listing available .dat files and serving their contents raw or parsed into
JSON rows.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	binName := BinName()
	serveCmd.Example = `  # Serve a directory of sweep runs on the default port
  ` + binName + ` serve -d ./sweep-output

  # Serve on a specific address
  ` + binName + ` serve -d ./sweep-output -a :9090`

	serveCmd.Flags().StringVarP(&serveDataDir, "data-dir", "d", "./sweep-output", "Directory containing sweep run subdirectories")
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "Address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	if _, err := os.Stat(serveDataDir); os.IsNotExist(err) {
		return fmt.Errorf("data directory not found: %s", serveDataDir)
	}

	server := webui.NewServer(serveDataDir, serveAddr, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
		os.Exit(0)
	}()

	log.Info("serving %s on http://localhost%s", serveDataDir, serveAddr)

	if err := server.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
