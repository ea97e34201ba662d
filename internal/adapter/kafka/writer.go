package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/config"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes loaded snapshots to a Kafka topic.
// It implements pipeline.Exporter.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Export serializes every record of the snapshot and publishes them in a
// single WriteMessages call. Records are keyed by id so reloads of the same
// event land on the same partition.
func (w *Writer) Export(ctx context.Context, snap *domain.Snapshot) error {
	if len(snap.Records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snap.Records))
	for i := range snap.Records {
		msg, err := serializeToMessage(snap, snap.Records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d records: %w", len(msgs), err)
	}
	w.logger.Debug("records written", "snapshot_id", snap.ID, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Record into a Kafka message tagged with its snapshot.
func serializeToMessage(snap *domain.Snapshot, rec domain.Record) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record %s: %w", rec.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(rec.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "snapshot_id", Value: []byte(snap.ID)},
			{Key: "loaded_at", Value: []byte(snap.LoadedAt.Format(time.RFC3339))},
		},
	}, nil
}
