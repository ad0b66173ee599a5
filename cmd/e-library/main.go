package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/config"
	"github.com/Xunop/e-library/internal/library"
	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/metrics"
	"github.com/Xunop/e-library/internal/server"
	"github.com/Xunop/e-library/internal/store"
	"github.com/Xunop/e-library/internal/store/db"
	"github.com/Xunop/e-library/internal/version"
)

const (
	greetingBanner = `
███████       ██      ██ ██████  ██████   █████  ██████  ██    ██
██            ██      ██ ██   ██ ██   ██ ██   ██ ██   ██  ██  ██
█████   █████ ██      ██ ██████  ██████  ███████ ██████    ████
██            ██      ██ ██   ██ ██   ██ ██   ██ ██   ██    ██
███████       ███████ ██ ██████  ██   ██ ██   ██ ██   ██    ██
`
)

var (
	configFile string

	rootCmd = &cobra.Command{
		Use:   "e-library",
		Short: "E-Library is a personal library catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.LoadWithFlags(configFile, cmd.Flags()); err != nil {
				return err
			}
			log.Logger = log.NewLogger()
			defer log.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx)
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.GetCurrentVersion())
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (toml, yaml or json)")
	rootCmd.Flags().String("host", "", "host to listen on")
	rootCmd.Flags().IntP("port", "p", 0, "port to listen on")
	rootCmd.Flags().StringP("data", "d", "", "data directory")
	rootCmd.Flags().String("dsn", "", "path of the sqlite database file")
	rootCmd.Flags().String("log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(versionCmd)
}

func run(ctx context.Context) error {
	d, err := db.NewDB(config.Opts.DSN)
	if err != nil {
		log.Error("Error opening database", zap.Error(err))
		return err
	}
	if err := d.Migrate(ctx); err != nil {
		d.Close()
		log.Error("Error migrating database", zap.Error(err))
		return err
	}

	s := store.NewStore(d.DB)
	defer s.Close()
	if err := s.Ping(); err != nil {
		log.Error("Error pinging database", zap.Error(err))
		return err
	}

	if config.Opts.MetricsCollector {
		collector := metrics.NewCollector(s, time.Duration(config.Opts.MetricsRefreshInterval)*time.Second)
		prometheus.MustRegister(collector)
		go collector.Run(ctx)
	}

	httpServer, errCh, err := server.StartServer(s, library.NewService(s))
	if err != nil {
		log.Error("Error starting server", zap.Error(err))
		return err
	}
	fmt.Print(greetingBanner)
	log.Info("E-Library started",
		zap.String("version", version.GetCurrentVersion()),
		zap.String("address", httpServer.Addr),
		zap.String("dsn", config.Opts.DSN))

	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			log.Error("HTTP server stopped", zap.Error(err))
			return err
		}
	}

	if err := server.Shutdown(httpServer); err != nil {
		log.Error("Error shutting down server", zap.Error(err))
		return err
	}
	log.Info("E-Library stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
