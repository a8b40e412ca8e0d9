package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/videohub/account-service/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	deleteTimeout  = 30 * time.Second
)

// Deleter removes a stored object by its public URL.
type Deleter interface {
	Delete(ctx context.Context, url string) error
}

// Dispatcher removes replaced or orphaned media from the media host in the
// background. URLs are sharded across a fixed set of workers by hash so the
// same object is never deleted concurrently.
type Dispatcher struct {
	workers []chan string
	deleter Deleter
	log     zerolog.Logger

	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, deleter Deleter, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		deleter: deleter,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit when ctx is cancelled or
// after Stop has drained their channel.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue schedules url for deletion. It never blocks: when the worker channel
// is full or the dispatcher is stopped the URL is dropped and logged.
func (d *Dispatcher) Enqueue(url string) {
	if url == "" {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.log.Warn().Str("url", url).Msg("media cleanup stopped, deletion dropped")
		metrics.StaleMediaDroppedTotal.Inc()
		return
	}

	idx := d.shardIndex(url)
	select {
	case d.workers[idx] <- url:
		metrics.StaleMediaQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		d.log.Warn().Str("url", url).Int("worker_id", idx).Msg("media cleanup queue full, deletion dropped")
		metrics.StaleMediaDroppedTotal.Inc()
	}
}

// Stop closes the worker channels and waits for queued deletions to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a URL deterministically to a worker index.
func (d *Dispatcher) shardIndex(url string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(url))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case url, ok := <-ch:
			if !ok {
				return
			}
			metrics.StaleMediaQueueDepth.WithLabelValues(label).Dec()
			d.delete(ctx, id, url)
		}
	}
}

func (d *Dispatcher) delete(ctx context.Context, id int, url string) {
	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()

	err := d.deleter.Delete(ctx, url)
	metrics.StaleMediaDeletedTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		d.log.Error().Err(err).
			Str("url", url).
			Int("worker_id", id).
			Msg("stale media deletion failed")
		return
	}
	d.log.Debug().Str("url", url).Int("worker_id", id).Msg("stale media deleted")
}
