package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/natnael/payops/internal/config"
	"github.com/natnael/payops/internal/generator"
	"github.com/natnael/payops/internal/loader"
	"github.com/natnael/payops/internal/logging"
)

func main() {
	var (
		datasetDir = flag.String("dataset-dir", "data", "directory containing payments.json")
		dataset    = flag.String("dataset", "", "path to payments.json (overrides dataset-dir)")
		serverURL  = flag.String("server-url", "http://localhost:8080", "base URL of a running payops server")
		workers    = flag.Int("workers", 4, "number of concurrent submission workers")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	path := *dataset
	if path == "" {
		path = filepath.Join(*datasetDir, "payments.json")
	}

	records, err := loadRecords(path)
	if err != nil {
		logger.Error("failed to load dataset", "error", err, "path", path)
		os.Exit(1)
	}
	if len(records) == 0 {
		logger.Error("dataset is empty", "path", path)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	l := loader.New(*serverURL, *workers)

	start := time.Now()
	logger.Info("submitting payments", "count", len(records), "workers", *workers, "server", *serverURL)
	if err := l.Submit(ctx, records); err != nil {
		logger.Error("bulk submission failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion complete", "count", len(records), "duration", time.Since(start).String())
}

func loadRecords(path string) ([]generator.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var records []generator.Record
	if err := json.NewDecoder(file).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}
