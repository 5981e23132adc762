package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/Shopify/sarama"
	"go.uber.org/zap"

	"github.com/pcordone/dataToSummaryCSV/internal/config"
	"github.com/pcordone/dataToSummaryCSV/internal/models"
	"github.com/pcordone/dataToSummaryCSV/internal/summary"
	"github.com/pcordone/dataToSummaryCSV/internal/transpose"
)

// SinkName identifies the producer in logs and metrics
const SinkName = "kafka"

// SummaryMessage is the JSON value of one published summary row.
// Undefined statistics are null.
type SummaryMessage struct {
	RunID      string   `json:"runId,omitempty"`
	Resolution int      `json:"resolution"`
	AGNo       int      `json:"AGNo"`
	AG         string   `json:"AG"`
	TimeOfDay  string   `json:"timeOfDay"`
	KWAvg      *float64 `json:"kWAvg"`
	KWMedian   *float64 `json:"kWMedian"`
	KWMax      *float64 `json:"kWMax"`
	KWMin      *float64 `json:"kWMin"`
}

// NewSummaryMessage converts a summary row to its message form
func NewSummaryMessage(runID string, r models.SummaryRecord) SummaryMessage {
	return SummaryMessage{
		RunID:      runID,
		Resolution: r.Resolution,
		AGNo:       r.AGNo,
		AG:         transpose.GroupLabel(r.AGNo),
		TimeOfDay:  summary.FormatInstant(r.TimeOfDay),
		KWAvg:      defined(r.KWAvg),
		KWMedian:   defined(r.KWMedian),
		KWMax:      defined(r.KWMax),
		KWMin:      defined(r.KWMin),
	}
}

func defined(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Producer publishes summary rows to a Kafka topic
type Producer struct {
	config   config.KafkaConfig
	producer sarama.SyncProducer
	logger   *zap.Logger
	runID    string
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg config.KafkaConfig, logger *zap.Logger) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = cfg.ClientID
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	if cfg.Timeout > 0 {
		saramaConfig.Net.DialTimeout = cfg.Timeout
		saramaConfig.Producer.Timeout = cfg.Timeout
	}

	client, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewProducerWith(cfg, client, logger), nil
}

// NewProducerWith wraps an existing sarama producer
func NewProducerWith(cfg config.KafkaConfig, producer sarama.SyncProducer, logger *zap.Logger) *Producer {
	return &Producer{
		config:   cfg,
		producer: producer,
		logger:   logger,
	}
}

// WithRunID tags subsequent messages with the run identifier
func (p *Producer) WithRunID(runID string) *Producer {
	p.runID = runID
	return p
}

// Name implements processor.Sink
func (p *Producer) Name() string { return SinkName }

// Publish sends one message per summary row, keyed by apartment group so a
// group's rows land on the same partition.
func (p *Producer) Publish(ctx context.Context, records []models.SummaryRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msgs := make([]*sarama.ProducerMessage, 0, len(records))
	for _, r := range records {
		msg, err := p.message(r)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.producer.SendMessages(msgs); err != nil {
		return fmt.Errorf("send %d summary messages: %w", len(msgs), err)
	}

	p.logger.Info("summary published to kafka",
		zap.String("topic", p.config.Topic),
		zap.Int("messages", len(msgs)))
	return nil
}

func (p *Producer) message(r models.SummaryRecord) (*sarama.ProducerMessage, error) {
	value, err := json.Marshal(NewSummaryMessage(p.runID, r))
	if err != nil {
		return nil, fmt.Errorf("encode summary %s: %w", transpose.GroupLabel(r.AGNo), err)
	}
	return &sarama.ProducerMessage{
		Topic: p.config.Topic,
		Key:   sarama.StringEncoder(transpose.GroupLabel(r.AGNo)),
		Value: sarama.ByteEncoder(value),
	}, nil
}

// Close closes the underlying producer
func (p *Producer) Close() error {
	return p.producer.Close()
}
