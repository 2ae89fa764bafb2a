package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/robcowart/mqha/internal/config"
	"github.com/robcowart/mqha/internal/manifest"
	"github.com/robcowart/mqha/internal/models"
	"github.com/robcowart/mqha/internal/service"
)

// Files written by generate next to the bundle artifacts
const (
	manifestFile = "mq.yaml"
	ccdtFile     = "ccdt.json"
	verifyFile   = "verify.sh"
)

func generateCommand(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	outDir := fs.StringP("out", "o", "mqha-tls", "Directory the bundle and manifests are written to")

	cfg, done, code := loadConfig("generate",
		"Issue a TLS bundle for the wizard defaults and write it with the deployment manifests.",
		fs, args, stdout, stderr)
	if done {
		return code
	}

	logger, err := initLogger(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	written, err := generate(ctx, cfg, logger, *outDir)
	if err != nil {
		logger.Error("Failed to generate deployment", zap.Error(err))
		return 1
	}

	for _, path := range written {
		fmt.Fprintln(stdout, path)
	}
	return 0
}

// generate issues a bundle for the configured wizard defaults and writes the
// artifacts, manifests, CCDT and verification script to dir. It returns the
// written paths in order.
func generate(ctx context.Context, cfg *config.Config, logger *zap.Logger, dir string) ([]string, error) {
	mq := models.DefaultMQConfig(cfg.Wizard)

	session, err := service.NewBundleService(cfg, logger).Generate(ctx, &mq)
	if err != nil {
		return nil, err
	}
	mq.TLS = session.TLS

	manifests, err := manifest.Generate(&mq)
	if err != nil {
		return nil, fmt.Errorf("failed to generate manifests: %w", err)
	}
	ccdt, err := manifest.CCDT(&mq)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CCDT: %w", err)
	}

	type outputFile struct {
		name    string
		content string
		mode    os.FileMode
	}

	var files []outputFile
	for _, a := range service.Artifacts(session.TLS) {
		mode := os.FileMode(0o644)
		if a.Private {
			mode = 0o600
		}
		files = append(files, outputFile{a.Name, a.Content, mode})
	}
	files = append(files,
		outputFile{manifestFile, manifests + "\n", 0o644},
		outputFile{ccdtFile, ccdt + "\n", 0o644},
		outputFile{verifyFile, "#!/bin/sh\n" + manifest.VerificationCommands(&mq) + "\n", 0o755},
	)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		// An existing file would keep its mode while the new content is written
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return written, fmt.Errorf("failed to replace %s: %w", f.name, err)
		}
		if err := os.WriteFile(path, []byte(f.content), f.mode); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		// the umask may have narrowed the requested mode
		if err := os.Chmod(path, f.mode); err != nil {
			return written, fmt.Errorf("failed to set mode of %s: %w", f.name, err)
		}
		written = append(written, path)
	}

	logger.Info("Deployment written",
		zap.String("session_id", session.ID),
		zap.String("directory", dir),
		zap.Int("files", len(written)),
	)

	return written, nil
}
