package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
	"github.com/ali-ezz/web-cart-galaxy/internal/core/ports"
	"github.com/ali-ezz/web-cart-galaxy/internal/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
	processTimeout = 10 * time.Second
)

// Dispatcher fans order lifecycle events out to a fixed pool of workers.
// Events are sharded by order reference, so all events for one order land
// on the same worker and process in publish order.
type Dispatcher struct {
	workers []chan domain.OrderEvent
	service ports.EventService
	log     zerolog.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ ports.EventPublisher = (*Dispatcher)(nil)

// NewDispatcher builds a dispatcher with numWorkers goroutines. A value
// below 1 falls back to defaultWorkers.
func NewDispatcher(numWorkers int, service ports.EventService, log zerolog.Logger) *Dispatcher {
	if numWorkers < 1 {
		numWorkers = defaultWorkers
	}
	workers := make([]chan domain.OrderEvent, numWorkers)
	for i := range workers {
		workers[i] = make(chan domain.OrderEvent, channelBuffer)
	}
	return &Dispatcher{
		workers: workers,
		service: service,
		log:     log.With().Str("component", "event_dispatcher").Logger(),
	}
}

// Start launches the worker goroutines. It returns immediately.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
	d.log.Info().Int("workers", len(d.workers)).Msg("event dispatcher started")
}

// Publish enqueues an event for async processing. It never blocks: when
// the target worker's buffer is full the event is dropped and logged, so
// the mutation that produced it still succeeds.
func (d *Dispatcher) Publish(event domain.OrderEvent) {
	idx := d.shardIndex(event.OrderReference)
	select {
	case d.workers[idx] <- event:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.EventsErrorsTotal.WithLabelValues("queue_full").Inc()
		d.log.Error().
			Str("event_id", event.ID).
			Str("reference", event.OrderReference).
			Int("worker_id", idx).
			Msg("worker queue full, event dropped")
	}
}

// Stop closes the worker channels and blocks until every buffered event
// has been processed. Safe to call more than once.
func (d *Dispatcher) Stop() {
	d.closeOnce.Do(func() {
		for _, ch := range d.workers {
			close(ch)
		}
	})
	d.wg.Wait()
	d.log.Info().Msg("event dispatcher drained")
}

// shardIndex maps an order reference onto a worker so per-order ordering
// holds across publishes.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(id int, ch <-chan domain.OrderEvent) {
	defer d.wg.Done()
	workerID := strconv.Itoa(id)

	for event := range ch {
		metrics.EventsQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))

		// Processing outlives the server context so a shutdown drains
		// instead of aborting in-flight events.
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		if err := d.service.Process(ctx, event); err != nil {
			d.log.Error().
				Err(err).
				Str("event_id", event.ID).
				Str("reference", event.OrderReference).
				Int("worker_id", id).
				Msg("event processing failed")
		}
		cancel()
	}
}
