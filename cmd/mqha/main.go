package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/robcowart/mqha/internal/api"
	"github.com/robcowart/mqha/internal/config"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches to a subcommand and returns the process exit code. Without
// a subcommand the server is started.
func run(args []string, stdout, stderr io.Writer) int {
	command := "serve"
	if len(args) > 0 && len(args[0]) > 0 && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		return serveCommand(args, stdout, stderr)
	case "generate":
		return generateCommand(args, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "MQ Native HA Toolkit v%s\n", version)
		return 0
	case "help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", command)
		printUsage(stderr)
		return 2
	}
}

func printUsage(out io.Writer) {
	fmt.Fprintf(out, "Usage: mqha <command> [OPTIONS]\n\n")
	fmt.Fprintf(out, "Commands:\n")
	fmt.Fprintf(out, "  serve     Start the HTTP API (default)\n")
	fmt.Fprintf(out, "  generate  Issue a TLS bundle and write it with the deployment manifests\n")
	fmt.Fprintf(out, "  version   Print the version\n\n")
	fmt.Fprintf(out, "Run 'mqha <command> --help' for the options of a command.\n")
}

// loadConfig parses args into a fresh flag set and loads the configuration.
// done is true when the command has nothing left to do.
func loadConfig(command, summary string, fs *flag.FlagSet, args []string, stdout, stderr io.Writer) (cfg *config.Config, done bool, code int) {
	flags := config.NewFlags(fs)
	fs.Usage = func() { flags.Usage(stderr, "mqha "+command, summary) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, 0
		}
		fmt.Fprintf(stderr, "%v\n", err)
		return nil, true, 2
	}

	if flags.Version() {
		fmt.Fprintf(stdout, "MQ Native HA Toolkit v%s\n", version)
		return nil, true, 0
	}

	cfg, err := config.Load(flags.ConfigFile(), flags)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return nil, true, 1
	}
	return cfg, false, 0
}

func serveCommand(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg, done, code := loadConfig("serve", "Serve the MQ Native HA TLS and manifest API.", fs, args, stdout, stderr)
	if done {
		return code
	}

	logger, err := initLogger(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("Starting MQ Native HA Toolkit",
		zap.String("version", version),
		zap.Duration("issuance_timeout", cfg.PKI.IssuanceTimeout),
	)

	router := api.NewRouter(cfg, logger, version)

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("address", srv.Addr),
			zap.Bool("tls", cfg.Server.TLSEnabled),
		)

		var err error
		if cfg.Server.TLSEnabled {
			err = srv.ListenAndServeTLS(cfg.Server.TLSCert, cfg.Server.TLSKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		logger.Error("Server failed to start", zap.Error(err))
		return 1
	case <-quit:
	}

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
	return 0
}

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config

	if cfg.Logging.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Set log level
	switch cfg.Logging.Level {
	case "debug":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapConfig.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	return zapConfig.Build()
}
