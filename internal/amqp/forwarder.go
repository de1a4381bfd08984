package amqp

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"budgetbuddy/internal/events"
	"budgetbuddy/internal/log"
)

const defaultForwardQueue = 256

var (
	ErrForwardQueueFull = errors.New("forward queue is full")
	ErrForwarderClosed  = errors.New("forwarder is closed")
)

// Forwarder hands events to a publisher from a background goroutine, so a
// ledger write never waits on the broker. Events that arrive while the
// queue is full are dropped and counted.
type Forwarder struct {
	next   events.Publisher
	logger *log.Logger
	queue  chan events.Event

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	dropped atomic.Int64
}

// NewForwarder starts forwarding to next. size <= 0 uses a queue of 256.
func NewForwarder(next events.Publisher, size int, logger *log.Logger) *Forwarder {
	if logger == nil {
		logger = log.Discard()
	}
	if size <= 0 {
		size = defaultForwardQueue
	}
	f := &Forwarder{
		next:   next,
		logger: logger.WithComponent(log.ComponentAMQP),
		queue:  make(chan events.Event, size),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go f.run()
	return f
}

// Publish enqueues e and returns at once.
func (f *Forwarder) Publish(ctx context.Context, e events.Event) error {
	select {
	case <-f.stop:
		return ErrForwarderClosed
	default:
	}
	select {
	case f.queue <- e:
		return nil
	default:
		n := f.dropped.Add(1)
		f.logger.WarnContext(ctx, "Dropping ledger event, forward queue full",
			log.FieldEvent, string(e.Type),
			log.FieldEmail, e.Email,
			"dropped", n)
		return ErrForwardQueueFull
	}
}

// Dropped reports how many events were discarded because the queue was full.
func (f *Forwarder) Dropped() int64 {
	return f.dropped.Load()
}

func (f *Forwarder) run() {
	defer close(f.done)
	for {
		select {
		case e := <-f.queue:
			f.forward(e)
		case <-f.stop:
			for {
				select {
				case e := <-f.queue:
					f.forward(e)
				default:
					return
				}
			}
		}
	}
}

func (f *Forwarder) forward(e events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := f.next.Publish(ctx, e); err != nil {
		f.logger.Warn("Failed to forward ledger event",
			log.FieldError, err,
			log.FieldEvent, string(e.Type),
			log.FieldEmail, e.Email)
	}
}

// Close stops accepting events and waits until the queued ones have been
// handed to the publisher.
func (f *Forwarder) Close() error {
	f.stopOnce.Do(func() { close(f.stop) })
	<-f.done
	return nil
}
