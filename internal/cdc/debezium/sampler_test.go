package debezium

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/dqc/internal/source"
	"github.com/alexanderjulianmartinez/dqc/internal/testutil"
)

type fakeReader struct {
	messages []string
	err      error
	closed   bool
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.messages) == 0 {
		if f.err != nil {
			return kafka.Message{}, f.err
		}
		return kafka.Message{}, context.DeadlineExceeded
	}
	m := f.messages[0]
	f.messages = f.messages[1:]
	return kafka.Message{Value: []byte(m)}, nil
}

func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}

func newSampler(t *testing.T, cfg Config, reader *fakeReader) (*Sampler, *string) {
	t.Helper()
	s := New(cfg, testutil.NewTestLogger(t))
	var topic string
	s.newReader = func(name string) messageReader {
		topic = name
		return reader
	}
	return s, &topic
}

var ordersTable = source.TableSpec{
	Name: "orders",
	Fields: []source.FieldSpec{
		{Name: "id", Type: source.TypeBigint},
		{Name: "total", Type: source.TypeAmount},
	},
}

func TestSampler_ReadsRowImages(t *testing.T) {
	reader := &fakeReader{messages: []string{
		`{"payload":{"after":{"id":1,"total":100},"op":"c"}}`,
		``,
		`{"payload":{"before":{"id":1},"after":null,"op":"d"}}`,
		`not json`,
		`{"payload":{"after":{"id":2},"op":"u"}}`,
		`{"payload":{"after":{"id":3,"total":5},"op":"c"}}`,
	}}
	s, topic := newSampler(t, Config{Brokers: []string{"localhost:9092"}, TopicPrefix: "shop.sales", SampleRows: 2}, reader)

	snap, err := s.Sample(context.Background(), ordersTable)
	require.NoError(t, err)
	assert.Equal(t, "shop.sales.orders", *topic)
	assert.Equal(t, []string{"id", "total"}, snap.Columns)
	assert.Equal(t, [][]any{
		{json.Number("1"), json.Number("100")},
		{json.Number("2"), nil},
	}, snap.Rows)
	assert.True(t, reader.closed)
}

func TestSampler_EmptyTopic(t *testing.T) {
	s, _ := newSampler(t, Config{Brokers: []string{"b:9092"}}, &fakeReader{})
	_, err := s.Sample(context.Background(), ordersTable)
	require.ErrorIs(t, err, source.ErrTableNotFound)

	s, _ = newSampler(t, Config{Brokers: []string{"b:9092"}}, &fakeReader{err: kafka.UnknownTopicOrPartition})
	_, err = s.Sample(context.Background(), ordersTable)
	require.ErrorIs(t, err, source.ErrTableNotFound)
}

func TestSampler_ReadFailure(t *testing.T) {
	s, _ := newSampler(t, Config{Brokers: []string{"b:9092"}}, &fakeReader{err: errors.New("broker gone")})
	_, err := s.Sample(context.Background(), ordersTable)
	require.Error(t, err)
	assert.NotErrorIs(t, err, source.ErrTableNotFound)
}

func TestSampler_NoBrokers(t *testing.T) {
	_, err := New(Config{}, nil).Sample(context.Background(), ordersTable)
	require.Error(t, err)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "orders", New(Config{}, nil).Topic("orders"))
	assert.Equal(t, "db.orders", New(Config{TopicPrefix: "db."}, nil).Topic("orders"))
}
