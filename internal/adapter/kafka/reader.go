package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/ntm-import/internal/config"
	"github.com/couchcryptid/ntm-import/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Reader consumes bulletin documents from the source topic.
// It implements pipeline.BatchExtractor.
type Reader struct {
	reader        *kafkago.Reader
	flushInterval time.Duration
	logger        *slog.Logger
}

// NewReader creates a consumer-group reader for the configured source topic.
// Offsets are committed explicitly through RawDocument.Commit.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaSourceTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: cfg.BulletinMaxBytes,
	})
	return &Reader{reader: r, flushInterval: cfg.BatchFlushInterval, logger: logger}
}

// ExtractBatch fetches up to batchSize documents, returning early with what it
// has once the flush interval elapses. An empty batch with a nil error means
// nothing arrived in time.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawDocument, error) {
	fetchCtx := ctx
	if r.flushInterval > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, r.flushInterval)
		defer cancel()
	}

	docs := make([]domain.RawDocument, 0, batchSize)
	for len(docs) < batchSize {
		msg, err := r.reader.FetchMessage(fetchCtx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}
			if len(docs) > 0 {
				// Hand over what was fetched; the error resurfaces on the next call.
				r.logger.Warn("fetch interrupted, returning partial batch", "error", err, "count", len(docs))
				break
			}
			return nil, err
		}
		doc := mapMessageToRawDocument(msg)
		doc.Commit = func(ctx context.Context) error {
			return r.reader.CommitMessages(ctx, msg)
		}
		docs = append(docs, doc)
	}

	if len(docs) > 0 {
		r.logger.Debug("fetched bulletin batch", "count", len(docs))
	}
	return docs, nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// mapMessageToRawDocument converts a Kafka message to a RawDocument without a commit callback.
func mapMessageToRawDocument(msg kafkago.Message) domain.RawDocument {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawDocument{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
	}
}
