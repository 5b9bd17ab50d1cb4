package kafka

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Producer 发布调度事件
type Producer struct {
	w messageWriter
}

// NewProducer 创建生产者；writeTimeout<=0 时使用 kafka-go 默认值
func NewProducer(brokers []string, writeTimeout time.Duration) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			WriteTimeout: writeTimeout,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func newProducerWithWriter(w messageWriter) *Producer {
	return &Producer{w: w}
}

// Publish 写入单条消息；同一 key 落在同一分区以保证单号内有序
func (p *Producer) Publish(ctx context.Context, topic string, key, value []byte) error {
	if err := p.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	}); err != nil {
		return errors.Wrap(err, "kafka publish")
	}
	return nil
}

// Close 关闭底层 writer
func (p *Producer) Close() error {
	if closer, ok := p.w.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
