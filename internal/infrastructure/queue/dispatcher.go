package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/sharebnb/sharebnb-api/internal/api/metrics"
	"github.com/sharebnb/sharebnb-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	releaseTimeout = 30 * time.Second
)

// Dispatcher deletes released photos in the background. Each URL hashes to
// a fixed worker, so releases of the same photo never race each other.
type Dispatcher struct {
	workers []chan string
	blobs   ports.BlobStore
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, blobs ports.BlobStore, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		blobs:   blobs,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// drains the releases already queued and stops; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *Dispatcher) Wait() { d.wg.Wait() }

// Release queues url for deletion without blocking the caller. When the
// worker's buffer is full the release is dropped and logged.
func (d *Dispatcher) Release(url string) {
	if url == "" {
		return
	}
	idx := d.shardIndex(url)
	select {
	case d.workers[idx] <- url:
		metrics.PhotoReleaseQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.PhotoReleaseTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("photo_url", url).Int("worker_id", idx).Msg("photo release queue full, dropping")
	}
}

// shardIndex maps a URL deterministically to a worker index.
func (d *Dispatcher) shardIndex(url string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(url))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer d.wg.Done()
	depth := metrics.PhotoReleaseQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			d.drain(context.WithoutCancel(ctx), id, ch, depth)
			return
		case url, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.release(ctx, id, url)
		}
	}
}

// drain releases whatever is still buffered in ch without waiting for more.
func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan string, depth prometheus.Gauge) {
	for {
		select {
		case url, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.release(ctx, id, url)
		default:
			return
		}
	}
}

func (d *Dispatcher) release(ctx context.Context, workerID int, url string) {
	ctx, cancel := context.WithTimeout(ctx, releaseTimeout)
	defer cancel()

	if err := d.blobs.Delete(ctx, url); err != nil {
		metrics.PhotoReleaseTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("photo_url", url).
			Int("worker_id", workerID).
			Msg("photo release failed")
		return
	}
	metrics.PhotoReleaseTotal.WithLabelValues("ok").Inc()
}
