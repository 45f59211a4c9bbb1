package plugin

import (
	"context"
	"log"
	"sync"

	"github.com/ayusman/pinchmaster/internal/game"
)

// DefaultQueueSize is the number of events buffered for plugins.
const DefaultQueueSize = 64

// Dispatcher hands game events to subscribed plugins on its own goroutine.
// Handle never blocks the frame loop; events beyond the queue are dropped.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	queue    chan game.Event

	mu      sync.Mutex
	dropped int
}

// NewDispatcher creates a Dispatcher. Non-positive sizes use DefaultQueueSize.
func NewDispatcher(manager *Manager, executor *Executor, size int) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Dispatcher{
		manager:  manager,
		executor: executor,
		queue:    make(chan game.Event, size),
	}
}

// Handle queues e for delivery.
func (d *Dispatcher) Handle(e game.Event) {
	select {
	case d.queue <- e:
	default:
		d.mu.Lock()
		d.dropped++
		d.mu.Unlock()
	}
}

// Dropped returns how many events did not fit in the queue.
func (d *Dispatcher) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// Run delivers queued events until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-d.queue:
			d.deliver(ctx, e)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, e game.Event) {
	for _, p := range d.manager.Subscribers(e.Kind) {
		resp, err := d.executor.Execute(ctx, p, &Request{Event: e, Config: p.Manifest.Config})
		if err != nil {
			log.Printf("plugin %s: %v", p.Manifest.Name, err)
			continue
		}
		if !resp.Success {
			log.Printf("plugin %s: %s", p.Manifest.Name, resp.Error)
		}
	}
}
