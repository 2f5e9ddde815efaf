package mq

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"expiry-scanner-api/config"
)

// "Rely on metrics, not guesses."
const bufferSize = 128

// Routing keys, also used as the event action.
const (
	ActionUserRegistered = "user.registered"
	ActionExpiryAnalyzed = "expiry.analyzed"
)

var RoutingKeys = []string{ActionUserRegistered, ActionExpiryAnalyzed}

type (
	InputCh  = chan Event
	RabbitMQ struct {
		cfg   config.MQ
		log   *zap.Logger
		conn  *amqp091.Connection
		pubCh *amqp091.Channel
		in    InputCh
	}
	Event struct {
		Id      uuid.UUID `json:"event_id"`
		TS      time.Time `json:"time_stamp"`
		Action  string    `json:"event_action"`
		UserID  string    `json:"user_id"`
		Payload any       `json:"payload"`
	}
	UserPayload struct {
		UUID      uuid.UUID `json:"uuid"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
	}
	AnalysisPayload struct {
		Email       string    `json:"email"`
		ExpiryDate  string    `json:"expiry_date"`
		ProductName string    `json:"product_name"`
		ImageURL    string    `json:"image_url"`
		AnalyzedAt  time.Time `json:"analyzed_at"`
	}
)

func NewEvent(action, userID string, payload any) Event {
	return Event{
		Id:      uuid.New(),
		TS:      time.Now().UTC(),
		Action:  action,
		UserID:  userID,
		Payload: payload,
	}
}

func New(cfg config.MQ, logger *zap.Logger) *RabbitMQ {
	return &RabbitMQ{
		cfg: cfg,
		log: logger,
		in:  make(chan Event, bufferSize),
	}
}

func (r *RabbitMQ) Connect(ctx context.Context, dsn string) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	amqpCfg := amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "expiryscanner",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	}

	var err error
	r.conn, err = amqp091.DialConfig(dsn, amqpCfg)
	if err != nil {
		return err
	}
	r.pubCh, err = r.conn.Channel()
	if err != nil {
		_ = r.conn.Close()
		return err
	}

	r.log.Info("rabbitmq connected successfully")

	return nil
}

func (r *RabbitMQ) Init() error {
	var err error
	if err = r.pubCh.ExchangeDeclare(
		r.cfg.Exchange,
		r.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = r.pubCh.Close()
		return err
	}
	q, err := r.pubCh.QueueDeclare(
		r.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for _, rk := range RoutingKeys {
		if err = r.pubCh.QueueBind(q.Name, rk, r.cfg.Exchange, false, nil); err != nil {
			return err
		}
	}

	return nil
}

func (r *RabbitMQ) PublisherWorker(ctx context.Context) {
	r.log.Info("starting publisher worker")

	defer func() {
		r.log.Info("publisher worker gracefully stopped")
	}()

	for {
		select {
		case e := <-r.in:
			if err := r.publish(ctx, e); err != nil {
				// alert
				r.log.Error("mq publish error", zap.Error(err), zap.String("action", e.Action))
			}
		case <-ctx.Done():
			_ = r.pubCh.Close()
			return
		}
	}
}

// Publish queues e without blocking the request path; a full buffer drops
// the event.
func (r *RabbitMQ) Publish(e Event) bool {
	select {
	case r.in <- e:
		return true
	default:
		r.log.Warn("mq buffer full, event dropped", zap.String("action", e.Action), zap.String("event_id", e.Id.String()))
		return false
	}
}

func (r *RabbitMQ) publish(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		// alert
		return err
	}

	pub := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    e.Id.String(),
		Timestamp:    e.TS,
		Type:         e.Action,
		Body:         b,
	}

	return r.pubCh.PublishWithContext(
		ctx,
		r.cfg.Exchange,
		e.Action,
		true,
		false,
		pub,
	)
}

func (r *RabbitMQ) GetConn() *amqp091.Connection { return r.conn }

// Discard stands in for RabbitMQ when no broker is configured.
type Discard struct{}

func (Discard) Publish(Event) bool { return false }
