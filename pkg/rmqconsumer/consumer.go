package rmqconsumer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"expiry-scanner-api/config"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

// routing key -> printed action
var actions = map[string]string{
	"user.registered": "UserRegistered",
	"expiry.analyzed": "ExpiryAnalyzed",
}

type Consumer struct {
	cfg        config.MQ
	log        *zap.Logger
	out        io.Writer
	conn       *amqp091.Connection
	chConsume  *amqp091.Channel
	chDelivery <-chan amqp091.Delivery
}

func New(cfg config.MQ, logger *zap.Logger, conn *amqp091.Connection) *Consumer {
	return &Consumer{
		cfg:  cfg,
		log:  logger,
		out:  os.Stdout,
		conn: conn,
	}
}

func RoutingKeys() []string {
	keys := make([]string, 0, len(actions))
	for rk := range actions {
		keys = append(keys, rk)
	}
	sort.Strings(keys)
	return keys
}

func (c *Consumer) Connect(dsn string) error {
	var err error
	c.conn, err = amqp091.Dial(dsn)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	return c.openChannel()
}

// Reuse opens the consume channel on a connection that is already up.
func (c *Consumer) Reuse() error {
	if c.conn == nil {
		return fmt.Errorf("amqp: no connection to reuse")
	}
	return c.openChannel()
}

func (c *Consumer) openChannel() error {
	var err error
	c.chConsume, err = c.conn.Channel()
	if err != nil {
		_ = c.conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}

	c.log.Info("rabbitmq consumer connected successfully")

	return nil
}

func (c *Consumer) Init() error {
	if err := c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := c.chConsume.QueueDeclare(
		c.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	for _, rk := range RoutingKeys() {
		if err := c.chConsume.QueueBind(
			c.cfg.QueueName,
			rk,
			c.cfg.Exchange,
			false,
			nil,
		); err != nil {
			return fmt.Errorf("queue bind %s: %w", rk, err)
		}
	}

	if err := c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	var err error
	c.chDelivery, err = c.chConsume.Consume(
		c.cfg.QueueName,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	return nil
}

func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting delivery worker")

	defer func() {
		c.log.Info("delivery worker gracefully stopped")
	}()

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				c.log.Warn("delivery channel closed")
				return
			}
			if err := c.delivery(msg); err != nil {
				// alert
				c.log.Error("mq read message error", zap.Error(err))
			}
		case <-ctx.Done():
			_ = c.chConsume.Close()
			return
		}
	}
}

func (c *Consumer) delivery(msg amqp091.Delivery) error {
	// auto-ack; a failed print is not redelivered
	if len(msg.Body) > 0 && !json.Valid(msg.Body) {
		return fmt.Errorf("malformed event body, routing key %q", msg.RoutingKey)
	}

	_, err := fmt.Fprintf(c.out,
		"Action=%s EventBody=%s\n",
		actions[msg.RoutingKey],
		string(msg.Body),
	)

	return err
}
