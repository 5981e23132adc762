package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pcordone/dataToSummaryCSV/internal/config"
	"github.com/pcordone/dataToSummaryCSV/internal/influxdb"
	"github.com/pcordone/dataToSummaryCSV/internal/kafka"
	"github.com/pcordone/dataToSummaryCSV/internal/logger"
	"github.com/pcordone/dataToSummaryCSV/internal/metrics"
	"github.com/pcordone/dataToSummaryCSV/internal/processor"
)

const serviceName = "mfred-preprocess"

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	// Cancel on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runID := uuid.NewString()
	var sinks []processor.Sink

	if cfg.InfluxDB.Enabled {
		healthCtx, healthCancel := context.WithTimeout(ctx, 10*time.Second)
		influxClient, err := influxdb.NewClient(healthCtx, cfg.InfluxDB, log)
		healthCancel()
		if err != nil {
			log.Error("Failed to create InfluxDB client", zap.Error(err))
			return 1
		}
		defer influxClient.Close()
		sinks = append(sinks, influxClient)
	}

	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Error("Failed to create Kafka producer", zap.Error(err))
			return 1
		}
		defer func() {
			if err := producer.Close(); err != nil {
				log.Warn("Kafka producer close failed", zap.Error(err))
			}
		}()
		sinks = append(sinks, producer.WithRunID(runID))
	}

	proc := processor.NewProcessor(*cfg, log, metrics.New(), sinks...).WithRunID(runID)

	log.Info("Starting run",
		zap.String("run_id", runID),
		zap.Int("resolution", cfg.Pipeline.Resolution),
		zap.String("timeseries", cfg.Pipeline.TimeSeriesPath),
		zap.String("metadata", cfg.Pipeline.MetadataPath))

	res, err := proc.Run(ctx)
	if err != nil {
		log.Error("Run failed", zap.String("run_id", runID), zap.Error(err))
		return 1
	}

	log.Info("Run complete",
		zap.String("run_id", runID),
		zap.Int("input_rows", res.InputRows),
		zap.Int("summary_rows", len(res.Summary)))
	return 0
}
