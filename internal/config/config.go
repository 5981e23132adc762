package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate for unusable settings
var ErrInvalidConfig = errors.New("invalid configuration")

// ResolutionPlaceholder is replaced by the resolution in OutputPathTemplate
const ResolutionPlaceholder = "{resolution}"

// Config holds all application configuration
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

// PipelineConfig holds the inputs, output and bucketing of a run
type PipelineConfig struct {
	// Resolution is the time-of-day bucket size in minutes. Only 60 truncates
	// minutes; other values keep the full time of day.
	Resolution int `yaml:"resolution"`
	// GroupCount is the number of AGnn column triplets in the time series.
	GroupCount         int    `yaml:"group_count"`
	TimeSeriesPath     string `yaml:"timeseries_path"`
	MetadataPath       string `yaml:"metadata_path"`
	OutputPathTemplate string `yaml:"output_path_template"`
}

// KafkaConfig holds Kafka-related configuration
type KafkaConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Brokers  []string      `yaml:"brokers"`
	Topic    string        `yaml:"topic"`
	ClientID string        `yaml:"client_id"`
	Timeout  time.Duration `yaml:"timeout"`
}

// InfluxDBConfig holds InfluxDB-related configuration
type InfluxDBConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Org     string `yaml:"org"`
	Token   string `yaml:"token"`
	Bucket  string `yaml:"bucket"`
}

// MetricsConfig holds Prometheus textfile output settings
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load loads configuration from environment variables with sensible defaults,
// then applies the YAML file named by MFRED_CONFIG if set.
func Load() (*Config, error) {
	cfg := &Config{
		Pipeline: PipelineConfig{
			Resolution:         getEnvInt("MFRED_RESOLUTION", 60),
			GroupCount:         getEnvInt("MFRED_GROUP_COUNT", 26),
			TimeSeriesPath:     getEnv("MFRED_TIMESERIES_PATH", "./MFRED_Aggregates_15min_2019Q1-Q4.csv"),
			MetadataPath:       getEnv("MFRED_METADATA_PATH", "./ag_data.csv"),
			OutputPathTemplate: getEnv("MFRED_OUTPUT_TEMPLATE", "./processed_MFRED_Aggregates_"+ResolutionPlaceholder+".csv"),
		},
		Kafka: KafkaConfig{
			Enabled:  getEnvBool("KAFKA_ENABLED", false),
			Brokers:  getEnvStringSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:    getEnv("KAFKA_TOPIC", "mfred-time-of-day-summary"),
			ClientID: getEnv("KAFKA_CLIENT_ID", "mfred-preprocess"),
			Timeout:  getEnvDuration("KAFKA_TIMEOUT", 10*time.Second),
		},
		InfluxDB: InfluxDBConfig{
			Enabled: getEnvBool("INFLUXDB_ENABLED", false),
			URL:     getEnv("INFLUXDB_URL", "http://localhost:8086"),
			Org:     getEnv("INFLUXDB_ORG", "mfred"),
			Token:   getEnv("INFLUX_TOKEN", ""),
			Bucket:  getEnv("INFLUXDB_BUCKET", "mfred-summary"),
		},
		Metrics: MetricsConfig{
			TextfilePath: getEnv("METRICS_TEXTFILE", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	if path := os.Getenv("MFRED_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings a run cannot proceed without
func (c *Config) Validate() error {
	p := c.Pipeline
	switch {
	case p.Resolution <= 0:
		return fmt.Errorf("%w: resolution must be positive, got %d", ErrInvalidConfig, p.Resolution)
	case p.GroupCount < 1 || p.GroupCount > 99:
		return fmt.Errorf("%w: group count must be in 1..99, got %d", ErrInvalidConfig, p.GroupCount)
	case p.TimeSeriesPath == "":
		return fmt.Errorf("%w: time series path is empty", ErrInvalidConfig)
	case p.MetadataPath == "":
		return fmt.Errorf("%w: metadata path is empty", ErrInvalidConfig)
	case p.OutputPathTemplate == "":
		return fmt.Errorf("%w: output path template is empty", ErrInvalidConfig)
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		return fmt.Errorf("%w: kafka needs brokers and a topic", ErrInvalidConfig)
	}
	if c.InfluxDB.Enabled && (c.InfluxDB.URL == "" || c.InfluxDB.Bucket == "") {
		return fmt.Errorf("%w: influxdb needs a url and a bucket", ErrInvalidConfig)
	}
	return nil
}

// TruncatesMinutes reports whether time-of-day keys drop their minutes
func (p PipelineConfig) TruncatesMinutes() bool {
	return p.Resolution == 60
}

// OutputPath returns the output file name for the configured resolution
func (p PipelineConfig) OutputPath() string {
	return strings.ReplaceAll(p.OutputPathTemplate, ResolutionPlaceholder, strconv.Itoa(p.Resolution))
}

// Helper functions to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.Split(value, ",")
	}
	return defaultValue
}
