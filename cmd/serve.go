package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sheetcrm/web"
)

var (
	servePort         int
	serveFetchTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the CRM JSON API",
	Long: `Start an HTTP server exposing properties, leads, appointments, META and KPIs.

Read endpoints always answer 200 with a JSON array. When the spreadsheet cannot be
reached the array is empty and the X-Upstream-Status header is "unavailable".`,
	Example: `
  # Start on the configured port (default 8080)
  sheetcrm serve

  # Serve a local workbook on a custom port
  sheetcrm --configFile ./workbook.yaml serve --port 9090

  # Allow slow spreadsheets more time per request
  sheetcrm serve --fetch-timeout 30s
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := openApp(cmd.Context())
		if err != nil {
			return err
		}

		port := resolveServePort(servePort, current.cfg.Server.Port)
		timeout := serveFetchTimeout
		if timeout <= 0 {
			timeout = current.cfg.Server.FetchTimeout
		}

		server := &http.Server{
			Addr: fmt.Sprintf(":%d", port),
			Handler: web.NewServer(current.repo, web.Options{
				Logger:       current.logger,
				FetchTimeout: timeout,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		current.logger.WithFields(logrus.Fields{
			"addr":   server.Addr,
			"source": current.cfg.Source.Kind,
		}).Info("api listening")
		fmt.Printf("Listening on http://localhost:%d\n", port)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (default: server.port from config)")
	serveCmd.Flags().DurationVar(&serveFetchTimeout, "fetch-timeout", 0, "Per-request spreadsheet timeout (default: server.fetch_timeout from config)")
}

func resolveServePort(flagPort, configPort int) int {
	if flagPort > 0 {
		return flagPort
	}
	if configPort > 0 {
		return configPort
	}
	return 8080
}
