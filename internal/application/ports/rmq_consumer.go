package ports

import "context"

type RMQConsumer interface {
	Connect(dsn string) error
	Reuse() error
	Init() error
	DeliveryWorker(ctx context.Context)
}
