// Command calc is the line-oriented calculator prompt. It parses text
// commands and calls into the engine; logs go to a file so the prompt stays
// clean.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Mask13/IS601-Midterm/internal/config"
	"github.com/Mask13/IS601-Midterm/internal/engine"
	"github.com/Mask13/IS601-Midterm/internal/history"
	"github.com/Mask13/IS601-Midterm/internal/operations"
)

const defaultLogFile = "logs/calculator.log"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	logger, err := newFileLogger()
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer logger.Sync()

	store := history.NewStore(cfg.HistoryFile, logger)
	calc, err := engine.New(cfg, store, logger)
	if err != nil {
		return err
	}

	registry := operations.NewRegistry(cfg.Precision)

	repl := &repl{
		calc:     calc,
		registry: registry,
		in:       os.Stdin,
		out:      os.Stdout,
	}
	return repl.run()
}

// newFileLogger builds a production zap logger writing to CALC_LOG_FILE
// (default logs/calculator.log), creating the directory if needed.
func newFileLogger() (*zap.Logger, error) {
	path := os.Getenv("CALC_LOG_FILE")
	if path == "" {
		path = defaultLogFile
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	return zcfg.Build()
}
