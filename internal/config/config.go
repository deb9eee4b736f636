package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const defaultBulletinMaxBytes = 20 << 20

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaNoticeTopic string
	KafkaActiveTopic string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	// BulletinMaxBytes caps the size of one bulletin PDF fetched from Kafka.
	BulletinMaxBytes int

	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	maxBytes, err := parseBulletinMaxBytes()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "ntm-bulletins"),
		KafkaNoticeTopic:   sharedcfg.EnvOrDefault("KAFKA_NOTICE_TOPIC", "ntm-notices"),
		KafkaActiveTopic:   sharedcfg.EnvOrDefault("KAFKA_ACTIVE_TOPIC", "ntm-active-notices"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "ntm-import"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BulletinMaxBytes:   maxBytes,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaNoticeTopic == "" {
		return nil, errors.New("KAFKA_NOTICE_TOPIC is required")
	}
	if cfg.KafkaActiveTopic == "" {
		return nil, errors.New("KAFKA_ACTIVE_TOPIC is required")
	}
	if cfg.KafkaNoticeTopic == cfg.KafkaActiveTopic {
		return nil, errors.New("KAFKA_NOTICE_TOPIC and KAFKA_ACTIVE_TOPIC must differ")
	}

	return cfg, nil
}

func parseBulletinMaxBytes() (int, error) {
	s := os.Getenv("BULLETIN_MAX_BYTES")
	if s == "" {
		return defaultBulletinMaxBytes, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid BULLETIN_MAX_BYTES %q", s)
	}
	return n, nil
}
