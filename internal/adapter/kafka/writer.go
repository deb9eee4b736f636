package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/ntm-import/internal/config"
	"github.com/couchcryptid/ntm-import/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes parse results.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer      *kafkago.Writer
	noticeTopic string
	activeTopic string
	logger      *slog.Logger
}

// NewWriter creates a Kafka producer. Notice templates go to the notice topic,
// active-notice lists to the active topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{
		writer:      w,
		noticeTopic: cfg.KafkaNoticeTopic,
		activeTopic: cfg.KafkaActiveTopic,
		logger:      logger,
	}
}

// ActiveList is the payload published for an active-notice bulletin.
type ActiveList struct {
	ImportID string                  `json:"import_id,omitempty"`
	Bulletin domain.RawBulletin      `json:"bulletin"`
	Active   []domain.ActiveNoticeID `json:"active"`
}

// LoadBatch serializes every result of the batch and publishes them in a
// single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, results []domain.ImportResult) error {
	msgs, err := w.buildMessages(results)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	w.logger.Debug("publishing batch", "messages", len(msgs))
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func (w *Writer) buildMessages(results []domain.ImportResult) ([]kafkago.Message, error) {
	var msgs []kafkago.Message
	for _, r := range results {
		if r.Bulletin.Kind == domain.BulletinActive {
			msg, err := serializeActiveList(r)
			if err != nil {
				return nil, err
			}
			msg.Topic = w.activeTopic
			msgs = append(msgs, msg)
			continue
		}
		for i := range r.Notices {
			msg, err := serializeNotice(r.ImportID, r.Notices[i])
			if err != nil {
				return nil, err
			}
			msg.Topic = w.noticeTopic
			msgs = append(msgs, msg)
		}
	}
	return msgs, nil
}

// serializeNotice marshals a notice template into a Kafka message keyed by notice ID.
// Unnumbered notices fall back to their source file as key.
func serializeNotice(importID string, n domain.NoticeTemplate) (kafkago.Message, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize notice %q: %w", n.ID, err)
	}
	key := n.ID
	if key == "" {
		key = n.SourceFile
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "notice_type", Value: []byte(n.Type)},
			{Key: "source_file", Value: []byte(n.SourceFile)},
			{Key: "imported_at", Value: []byte(n.ImportedAt.Format(time.RFC3339))},
			{Key: "import_id", Value: []byte(importID)},
		},
	}, nil
}

// serializeActiveList marshals the active IDs of one bulletin into a single
// message keyed by the bulletin filename.
func serializeActiveList(r domain.ImportResult) (kafkago.Message, error) {
	active := r.Active
	if active == nil {
		active = []domain.ActiveNoticeID{}
	}
	data, err := json.Marshal(ActiveList{ImportID: r.ImportID, Bulletin: r.Bulletin, Active: active})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize active list %q: %w", r.Bulletin.Filename, err)
	}
	return kafkago.Message{
		Key:   []byte(r.Bulletin.Filename),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "year", Value: []byte(strconv.Itoa(r.Bulletin.Year))},
			{Key: "week", Value: []byte(strconv.Itoa(r.Bulletin.Week))},
			{Key: "import_id", Value: []byte(r.ImportID)},
		},
	}, nil
}
