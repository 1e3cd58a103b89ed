package messaging

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

// Publisher publishes serialized events to a message broker.
type Publisher interface {
	// Publish sends `body` with the given routing key. `messageID` lets consumers drop duplicates.
	Publish(ctx context.Context, routingKey string, messageID string, body []byte) error
	Close() error
}

// RabbitMQPublisher publishes persistent JSON messages to a topic exchange.
type RabbitMQPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// Dial connects to RabbitMQ, retrying with an exponential backoff up to `maxRetries` times.
func Dial(url string, maxRetries int) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	waitTime := 1 * time.Second

	for i := 0; i < maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}

		log.Warnf("第 %v 次连接 RabbitMQ 失败: %v。将在 %v 后重试...", i+1, err, waitTime)
		time.Sleep(waitTime)
		waitTime = time.Duration(math.Pow(2, float64(i+1))) * time.Second
	}

	return nil, errors.Wrap(err, "无法连接 RabbitMQ")
}

// NewRabbitMQPublisher opens a channel on `conn` and declares the durable topic exchange it publishes to.
func NewRabbitMQPublisher(conn *amqp.Connection, exchange string) (*RabbitMQPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "无法打开 RabbitMQ 通道")
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = ch.Close()
		return nil, errors.Wrapf(err, "无法声明交换机 %v", exchange)
	}

	return &RabbitMQPublisher{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
	}, nil
}

// Publish implements `Publisher`.
func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, messageID string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.PublishWithContext(ctx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		return errors.Wrap(err, "无法发布消息")
	}

	return nil
}

// Close closes the channel and the connection.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.Close(); err != nil {
		return errors.Wrap(err, "无法关闭 RabbitMQ 通道")
	}

	return p.conn.Close()
}
