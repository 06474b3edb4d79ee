package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
)

// Dispatcher publishes in the background so callers never wait on, or fail
// because of, a slow transport. Close waits for in-flight events.
type Dispatcher struct {
	target  Broadcaster
	timeout time.Duration
	log     logger.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(target Broadcaster, timeout time.Duration, log logger.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Dispatcher{target: target, timeout: timeout, log: log}
}

// Publish schedules the event and returns immediately. Events published
// after Close are dropped.
func (d *Dispatcher) Publish(_ context.Context, topic, event string, payload interface{}) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("broadcast dropped after close", logger.String("topic", topic), logger.String("event", event))
		return nil
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.target.Publish(ctx, topic, event, payload); err != nil {
			d.log.Warn("broadcast failed",
				logger.String("topic", topic),
				logger.String("event", event),
				logger.Error(err),
			)
		}
	}()
	return nil
}

// Close stops accepting events and waits for pending ones or ctx, whichever
// comes first.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
