// Package debezium samples table rows from the Kafka topics a Debezium
// connector writes change events to.
package debezium

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/alexanderjulianmartinez/dqc/internal/cdc"
	"github.com/alexanderjulianmartinez/dqc/internal/source"
)

const (
	DefaultTimeout    = 3 * time.Second
	DefaultSampleRows = 10
)

type Config struct {
	Brokers     []string
	TopicPrefix string
	SampleRows  int
	Timeout     time.Duration
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Sampler struct {
	cfg       Config
	logger    *slog.Logger
	newReader func(topic string) messageReader
}

func New(cfg Config, logger *slog.Logger) *Sampler {
	if cfg.SampleRows <= 0 {
		cfg.SampleRows = DefaultSampleRows
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sampler{cfg: cfg, logger: logger}
	s.newReader = func(topic string) messageReader {
		return kafka.NewReader(kafka.ReaderConfig{
			Brokers:     cfg.Brokers,
			Topic:       topic,
			StartOffset: kafka.FirstOffset,
			MinBytes:    1,
			MaxBytes:    10e6, // 10MB
		})
	}
	return s
}

func (s *Sampler) Name() string {
	return "cdc"
}

// Topic returns the change topic for a table, <prefix>.<table>.
func (s *Sampler) Topic(table string) string {
	prefix := strings.TrimSuffix(s.cfg.TopicPrefix, ".")
	if prefix == "" {
		return table
	}
	return prefix + "." + table
}

// Sample collects row images from the table's change topic until enough rows
// are read or the read deadline passes.
func (s *Sampler) Sample(ctx context.Context, table source.TableSpec) (*source.Snapshot, error) {
	if len(s.cfg.Brokers) == 0 {
		return nil, errors.New("no kafka brokers provided")
	}
	topic := s.Topic(table.Name)
	r := s.newReader(topic)
	defer r.Close()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	snap := &source.Snapshot{Table: table.Name, Columns: table.FieldNames()}
	skipped := 0
	for len(snap.Rows) < s.cfg.SampleRows {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, kafka.UnknownTopicOrPartition) {
				break
			}
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			return nil, fmt.Errorf("read topic %s: %w", topic, err)
		}
		image, ok, err := cdc.DecodeRow(m.Value)
		if err != nil || !ok {
			skipped++
			continue
		}
		row := make([]any, len(table.Fields))
		for i, f := range table.Fields {
			row[i] = image[f.Name]
		}
		snap.Rows = append(snap.Rows, row)
	}

	if skipped > 0 {
		s.logger.Debug("skipped change events", "topic", topic, "count", skipped)
	}
	if len(snap.Rows) == 0 {
		return nil, fmt.Errorf("topic %s: %w", topic, source.ErrTableNotFound)
	}
	return snap, nil
}
