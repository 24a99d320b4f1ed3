package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/nimblecrm/crm-console/internal/api/metrics"
	"github.com/nimblecrm/crm-console/internal/core/domain"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

type job struct {
	ctx    context.Context
	key    string
	fn     func(context.Context) error
	result chan error
}

// Serializer routes mutations to a fixed set of workers using consistent
// hashing on the entity key, so writes to the same entity run one at a
// time and in submission order. Writes to different entities may run in
// parallel.
type Serializer struct {
	workers []chan job
	log     zerolog.Logger
	// stopped is closed once the context given to Start is done.
	stopped chan struct{}
}

// NewSerializer creates a Serializer with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewSerializer(numWorkers int, log zerolog.Logger) *Serializer {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	s := &Serializer{
		workers: make([]chan job, numWorkers),
		log:     log,
		stopped: make(chan struct{}),
	}
	for i := range s.workers {
		s.workers[i] = make(chan job, channelBuffer)
	}
	return s
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// pending jobs then fail with the context error, and later calls to Do
// fail with domain.ErrShuttingDown.
func (s *Serializer) Start(ctx context.Context) {
	for i, ch := range s.workers {
		go s.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(s.stopped)
	}()
}

// Do runs fn on the worker owning key and waits for its result. It returns
// early with ctx.Err() if the caller gives up before fn has run, and with
// domain.ErrShuttingDown once the serializer has stopped.
func (s *Serializer) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	select {
	case <-s.stopped:
		return domain.ErrShuttingDown
	default:
	}

	idx := s.shardIndex(key)
	j := job{ctx: ctx, key: key, fn: fn, result: make(chan error, 1)}

	select {
	case s.workers[idx] <- j:
		metrics.WriteQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return domain.ErrShuttingDown
	}

	select {
	case err := <-j.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return domain.ErrShuttingDown
	}
}

// shardIndex maps an entity key deterministically to a worker index.
func (s *Serializer) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(s.workers)))
}

func (s *Serializer) runWorker(ctx context.Context, id int, ch <-chan job) {
	depth := metrics.WriteQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			s.drain(ctx, ch, depth)
			return
		case j := <-ch:
			depth.Dec()
			if err := j.ctx.Err(); err != nil {
				j.result <- err
				continue
			}
			err := j.fn(j.ctx)
			if err != nil {
				s.log.Debug().Err(err).
					Str("entity", j.key).
					Int("worker_id", id).
					Msg("serialized write failed")
			}
			j.result <- err
		}
	}
}

func (s *Serializer) drain(ctx context.Context, ch <-chan job, depth prometheus.Gauge) {
	for {
		select {
		case j := <-ch:
			depth.Dec()
			j.result <- ctx.Err()
		default:
			return
		}
	}
}
