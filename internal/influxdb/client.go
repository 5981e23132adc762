package influxdb

import (
	"context"
	"fmt"
	"math"
	"strconv"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"go.uber.org/zap"

	"github.com/pcordone/dataToSummaryCSV/internal/config"
	"github.com/pcordone/dataToSummaryCSV/internal/models"
	"github.com/pcordone/dataToSummaryCSV/internal/transpose"
)

const (
	// SinkName identifies the client in logs and metrics
	SinkName = "influxdb"

	// Measurement holds one point per summary row
	Measurement = "time_of_day_summary"
)

// pointWriter is the part of api.WriteAPIBlocking the client uses
type pointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// Client represents an InfluxDB v2 client
type Client struct {
	client   influxdb2.Client
	writeAPI pointWriter
	config   config.InfluxDBConfig
	logger   *zap.Logger
}

// NewClient initializes the InfluxDB v2 client and verifies connectivity
func NewClient(ctx context.Context, cfg config.InfluxDBConfig, logger *zap.Logger) (*Client, error) {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)

	// Add a health check to verify credentials
	if _, err := client.Health(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}

	logger.Info("influxdb connection verified", zap.String("url", cfg.URL), zap.String("bucket", cfg.Bucket))
	return &Client{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		config:   cfg,
		logger:   logger,
	}, nil
}

// Name implements processor.Sink
func (c *Client) Name() string { return SinkName }

// Publish writes summary rows as points stamped with their time of day.
// Undefined statistics are left out; rows with nothing to write are skipped.
func (c *Client) Publish(ctx context.Context, records []models.SummaryRecord) error {
	points := SummaryPoints(records)
	if len(points) == 0 {
		return nil
	}

	if err := c.writeAPI.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("write %d points: %w", len(points), err)
	}

	c.logger.Info("summary written to influxdb",
		zap.Int("points", len(points)),
		zap.Int("skipped", len(records)-len(points)))
	return nil
}

// SummaryPoints converts summary rows to line protocol points
func SummaryPoints(records []models.SummaryRecord) []*write.Point {
	points := make([]*write.Point, 0, len(records))
	for _, r := range records {
		if !r.TimeOfDay.Valid {
			continue
		}

		fields := make(map[string]interface{}, 4)
		addField(fields, "kw_avg", r.KWAvg)
		addField(fields, "kw_median", r.KWMedian)
		addField(fields, "kw_max", r.KWMax)
		addField(fields, "kw_min", r.KWMin)
		if len(fields) == 0 {
			continue
		}

		points = append(points, write.NewPoint(
			Measurement,
			map[string]string{
				"ag_no":      strconv.Itoa(r.AGNo),
				"ag":         transpose.GroupLabel(r.AGNo),
				"resolution": strconv.Itoa(r.Resolution),
			},
			fields,
			r.TimeOfDay.Time,
		))
	}
	return points
}

func addField(fields map[string]interface{}, name string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	fields[name] = v
}

// Close closes the InfluxDB client
func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}
