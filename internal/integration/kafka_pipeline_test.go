//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkaadapter "github.com/couchcryptid/ntm-import/internal/adapter/kafka"
	"github.com/couchcryptid/ntm-import/internal/adapter/pdf"
	"github.com/couchcryptid/ntm-import/internal/config"
	"github.com/couchcryptid/ntm-import/internal/domain"
	"github.com/couchcryptid/ntm-import/internal/observability"
	"github.com/couchcryptid/ntm-import/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSourceTopic = "test-bulletins"
	testNoticeTopic = "test-notices"
	testActiveTopic = "test-active"
)

const weeklyText = `Efterretninger for Søfarende
1. (T) Kattegat. Ændret bøje.
Position. 56 12,34 N 012 34,56 E.
Detaljer. Bøjen er fjernet.
Søkort. 123.
(Forsvaret)
Translation
(T) Kattegat. Changed buoy.
Position. 56 12,34 N 012 34,56 E.
Details. The buoy has been removed.
(Defence)
2. Danmark. Storebælt. Ny kabel.
Detaljer. Kablet er nedlagt.
(Energinet)
- 1 -
`

const activeText = `Gældende T- og P-efterretninger
12/101 (T) Kattegat. Bøje.
3/7 (P) Østersøen. Arbejde.
`

// sinkMessage holds a message read back from one of the output topics.
type sinkMessage struct {
	Key     string
	Value   []byte
	Headers map[string]string
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaNoticeTopic:   testNoticeTopic,
		KafkaActiveTopic:   testActiveTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BulletinMaxBytes:   1 << 20,
		BatchFlushInterval: 5 * time.Second,
	}
}

func setupTopics(ctx context.Context, t *testing.T) string {
	t.Helper()
	broker := startKafka(ctx, t)
	for _, topic := range []string{testSourceTopic, testNoticeTopic, testActiveTopic} {
		createTopic(t, broker, topic)
	}
	return broker
}

func publish(ctx context.Context, t *testing.T, broker string, msgs ...kafkago.Message) {
	t.Helper()
	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, msgs...))
}

func newConsumer(t *testing.T, broker, topic string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       topic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// readSink reads a single message from an output topic.
func readSink(ctx context.Context, t *testing.T, consumer *kafkago.Reader) sinkMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return sinkMessage{Key: string(msg.Key), Value: msg.Value, Headers: headers}
}

// TestKafkaReaderWriter verifies the adapter layer: kafka.Reader and kafka.Writer
// round-trip one bulletin through Kafka.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := setupTopics(ctx, t)
	cfg := testConfig(broker, "test-reader")

	publish(ctx, t, broker, kafkago.Message{
		Key:   []byte("2024 PogT 05.txt"),
		Value: []byte(weeklyText),
	})

	// Retry because the consumer group may need time to rebalance before
	// partitions are assigned and messages become available.
	reader := kafkaadapter.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	var batch []domain.RawDocument
	for len(batch) == 0 {
		var err error
		batch, err = reader.ExtractBatch(ctx, 1)
		require.NoError(t, err)
		if ctx.Err() != nil {
			t.Fatal("timed out waiting for bulletin on source topic")
		}
	}
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, "2024 PogT 05.txt", raw.Filename())
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit, "commit callback should be set")
	require.NoError(t, raw.Commit(ctx))

	transformer := pipeline.NewTransformer(pdf.NewExtractor(), discardLogger())
	result, err := transformer.Transform(ctx, raw)
	require.NoError(t, err)
	require.Len(t, result.Notices, 2)

	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.LoadBatch(ctx, []domain.ImportResult{result}))

	consumer := newConsumer(t, broker, testNoticeTopic)

	first := readSink(ctx, t, consumer)
	assert.Equal(t, "DMA-2024-1", first.Key)
	assert.Equal(t, "TEMPORARY", first.Headers["notice_type"])
	_, err = time.Parse(time.RFC3339, first.Headers["imported_at"])
	assert.NoError(t, err, "imported_at should be valid RFC3339")

	var notice domain.NoticeTemplate
	require.NoError(t, json.Unmarshal(first.Value, &notice))
	assert.Equal(t, domain.Localized{Local: "Ændret bøje", English: "Changed buoy"}, notice.Title)
	require.NotNil(t, notice.Location)
	assert.InDelta(t, 56.2057, notice.Location.Points[0].Lat, 1e-3)

	second := readSink(ctx, t, consumer)
	assert.Equal(t, "DMA-2024-2", second.Key)
}

// TestPipelineEndToEnd wires Reader, BulletinTransformer and Writer against a
// real broker: a weekly bulletin, an active list and a misnamed file.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := setupTopics(ctx, t)
	cfg := testConfig(broker, "test-pipeline")

	publish(ctx, t, broker,
		kafkago.Message{Key: []byte("scan.pdf"), Value: []byte("%PDF-1.4")},
		kafkago.Message{Key: []byte("2024 PogT 05.txt"), Value: []byte(weeklyText)},
		kafkago.Message{Key: []byte("2024 PogT (05).txt"), Value: []byte(activeText)},
	)

	reader := kafkaadapter.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	transformer := pipeline.NewTransformer(pdf.NewExtractor(), discardLogger())

	p := pipeline.New(reader, transformer, writer, discardLogger(), observability.NewMetricsForTesting(), 10)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	notices := newConsumer(t, broker, testNoticeTopic)
	keys := []string{readSink(ctx, t, notices).Key, readSink(ctx, t, notices).Key}
	assert.ElementsMatch(t, []string{"DMA-2024-1", "DMA-2024-2"}, keys)

	active := readSink(ctx, t, newConsumer(t, broker, testActiveTopic))
	assert.Equal(t, "2024 PogT (05).txt", active.Key)
	assert.Equal(t, "5", active.Headers["week"])

	var list kafkaadapter.ActiveList
	require.NoError(t, json.Unmarshal(active.Value, &list))
	assert.Equal(t, []domain.ActiveNoticeID{
		{Year: 2024, Number: 101, Authority: domain.Authority},
		{Year: 2024, Number: 7, Authority: domain.Authority},
	}, list.Active)

	// Nothing else reaches the notice topic: the misnamed file was skipped.
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := notices.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no further notices")

	assert.True(t, p.Ready())
	pipelineCancel()
	require.NoError(t, <-errCh)
}
