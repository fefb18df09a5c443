package worker

import "context"

// Worker - фоновая задача, живущая столько же, сколько сервис
type Worker interface {
	// Start блокируется до отмены ctx или вызова Stop
	Start(ctx context.Context) error
	Stop() error
	Name() string
}
