package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pcordone/dataToSummaryCSV/internal/aggregate"
	"github.com/pcordone/dataToSummaryCSV/internal/config"
	"github.com/pcordone/dataToSummaryCSV/internal/metadata"
	"github.com/pcordone/dataToSummaryCSV/internal/metrics"
	"github.com/pcordone/dataToSummaryCSV/internal/models"
	"github.com/pcordone/dataToSummaryCSV/internal/summary"
	"github.com/pcordone/dataToSummaryCSV/internal/transpose"
)

// Pipeline stage names used in logs and metrics
const (
	StageMetadata  = "metadata"
	StageTranspose = "transpose"
	StageAggregate = "aggregate"
	StageWrite     = "write"
	StagePublish   = "publish"
)

// Sink receives the finished summary after the CSV has been written
type Sink interface {
	Name() string
	Publish(ctx context.Context, records []models.SummaryRecord) error
}

// Result describes a finished run
type Result struct {
	RunID       string
	InputRows   int
	LongRecords int
	Summary     []models.SummaryRecord
	OutputPath  string
	// WriteErr is set when the output file could not be written; the run
	// itself still counts as complete.
	WriteErr error
	// SinkErrs maps sink name to its publish error.
	SinkErrs map[string]error
}

// Processor runs the metadata, transpose and aggregate stages and delivers
// the summary
type Processor struct {
	config  config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	sinks   []Sink
	runID   string
	now     func() time.Time
}

// NewProcessor creates a new processor
func NewProcessor(cfg config.Config, logger *zap.Logger, m *metrics.Metrics, sinks ...Sink) *Processor {
	if m == nil {
		m = metrics.New()
	}
	return &Processor{
		config:  cfg,
		logger:  logger,
		metrics: m,
		sinks:   sinks,
		runID:   uuid.NewString(),
		now:     time.Now,
	}
}

// WithRunID replaces the generated run identifier
func (p *Processor) WithRunID(runID string) *Processor {
	p.runID = runID
	return p
}

// RunID returns the identifier attached to logs of this processor
func (p *Processor) RunID() string {
	return p.runID
}

// Run executes one full pass over the configured inputs. Load and join
// failures are returned; output and sink failures are logged and reported in
// the Result only.
func (p *Processor) Run(ctx context.Context) (*Result, error) {
	pc := p.config.Pipeline
	res := &Result{
		RunID:      p.runID,
		OutputPath: pc.OutputPath(),
		SinkErrs:   make(map[string]error),
	}
	log := p.logger.With(zap.String("run_id", res.RunID))

	if !pc.TruncatesMinutes() {
		log.Warn("resolution other than 60 keeps minutes in the time-of-day key",
			zap.Int("resolution", pc.Resolution))
	}

	// Load metadata
	start := p.now()
	meta, err := metadata.LoadFile(pc.MetadataPath, log)
	if err != nil {
		return nil, err
	}
	p.observe(log, StageMetadata, start, zap.Int("groups", len(meta)))

	// Reshape wide rows
	start = p.now()
	records, rows, err := transpose.New(pc, meta).TransposeFile(pc.TimeSeriesPath)
	if err != nil {
		return nil, err
	}
	res.InputRows = rows
	res.LongRecords = len(records)
	p.metrics.ObserveInputRows(rows)
	p.metrics.ObserveLongRecords(len(records))
	p.observe(log, StageTranspose, start, zap.Int("rows", rows), zap.Int("records", len(records)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Aggregate
	start = p.now()
	res.Summary = aggregate.Summarize(pc.Resolution, records)
	p.metrics.ObserveSummaryRecords(len(res.Summary))
	p.observe(log, StageAggregate, start, zap.Int("summary_rows", len(res.Summary)))

	// Write output
	start = p.now()
	if err := summary.WriteFile(res.OutputPath, res.Summary); err != nil {
		res.WriteErr = fmt.Errorf("write summary: %w", err)
		log.Error("summary write failed", zap.String("path", res.OutputPath), zap.Error(err))
	} else {
		log.Info("summary written", zap.String("path", res.OutputPath), zap.Int("rows", len(res.Summary)))
	}
	p.observe(log, StageWrite, start)

	// Deliver to sinks
	start = p.now()
	for _, sink := range p.sinks {
		err := sink.Publish(ctx, res.Summary)
		p.metrics.ObservePublish(sink.Name(), err)
		if err != nil {
			res.SinkErrs[sink.Name()] = err
			log.Error("summary publish failed", zap.String("sink", sink.Name()), zap.Error(err))
		}
	}
	if len(p.sinks) > 0 {
		p.observe(log, StagePublish, start, zap.Int("sinks", len(p.sinks)))
	}

	p.metrics.MarkRunFinished(p.now())
	if path := p.config.Metrics.TextfilePath; path != "" {
		if err := p.metrics.WriteTextfile(path); err != nil {
			log.Warn("metrics textfile write failed", zap.String("path", path), zap.Error(err))
		}
	}
	return res, nil
}

func (p *Processor) observe(log *zap.Logger, stage string, start time.Time, fields ...zap.Field) {
	elapsed := p.now().Sub(start)
	p.metrics.ObserveStage(stage, elapsed)
	log.Debug("stage finished", append([]zap.Field{zap.String("stage", stage), zap.Duration("elapsed", elapsed)}, fields...)...)
}
