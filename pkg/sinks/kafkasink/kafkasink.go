package kafkasink

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	lferrors "github.com/vnykmshr/lazyflow/pkg/common/errors"
	"github.com/vnykmshr/lazyflow/pkg/common/logging"
	"github.com/vnykmshr/lazyflow/pkg/common/validation"
)

// Header names set on every published message.
const (
	HeaderBatch = "lazyflow-batch"
	HeaderIndex = "lazyflow-index"
	HeaderCount = "lazyflow-count"
)

// MessageWriter is the part of *kafka.Writer a Sink uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// KeyFunc derives a message key from a value and its position in the batch.
type KeyFunc func(value any, index int) []byte

// Config holds configuration for a Kafka sink.
type Config struct {
	// Writer publishes the messages. A *kafka.Writer with Topic set is the
	// usual choice.
	Writer MessageWriter

	// Topic is set on each message; leave it empty when the writer has one.
	Topic string

	// Key derives message keys. Nil leaves keys empty.
	Key KeyFunc

	// Encode turns a value into a message payload (defaults to json.Marshal).
	Encode func(value any) ([]byte, error)

	// Logger receives one event per published batch.
	Logger zerolog.Logger
}

// Sink publishes pipeline results to Kafka, one message per value. Every
// batch gets a fresh id so consumers can group the messages of one refresh.
type Sink struct {
	writer MessageWriter
	topic  string
	key    KeyFunc
	encode func(any) ([]byte, error)
	logger zerolog.Logger
}

// New creates a Sink.
func New(config Config) (*Sink, error) {
	if err := validation.ValidateNotNil("kafkasink", "writer", config.Writer); err != nil {
		return nil, err
	}
	encode := config.Encode
	if encode == nil {
		encode = json.Marshal
	}
	return &Sink{
		writer: config.Writer,
		topic:  config.Topic,
		key:    config.Key,
		encode: encode,
		logger: logging.Component(config.Logger, "kafkasink"),
	}, nil
}

// Publish encodes values and writes them in one WriteMessages call. It has
// the signature of refresh.Sink. An empty batch writes nothing.
func (s *Sink) Publish(ctx context.Context, values []any) error {
	if len(values) == 0 {
		return nil
	}

	batch := uuid.NewString()
	count := []byte(strconv.Itoa(len(values)))
	msgs := make([]kafkago.Message, 0, len(values))
	for i, v := range values {
		payload, err := s.encode(v)
		if err != nil {
			return lferrors.NewOperationError("kafkasink", "encode", err).
				WithContext(fmt.Sprintf("value %d of batch %s", i, batch))
		}
		msg := kafkago.Message{
			Topic: s.topic,
			Value: payload,
			Headers: []kafkago.Header{
				{Key: HeaderBatch, Value: []byte(batch)},
				{Key: HeaderIndex, Value: []byte(strconv.Itoa(i))},
				{Key: HeaderCount, Value: count},
			},
		}
		if s.key != nil {
			msg.Key = s.key(v, i)
		}
		msgs = append(msgs, msg)
	}

	if err := s.writer.WriteMessages(ctx, msgs...); err != nil {
		return lferrors.NewOperationError("kafkasink", "publish", err).WithContext("batch " + batch)
	}

	s.logger.Debug().
		Str("batch", batch).
		Int(logging.FieldEmitted, len(msgs)).
		Msg("batch published")
	return nil
}
