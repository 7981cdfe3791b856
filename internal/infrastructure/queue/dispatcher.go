package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/kursownik/api/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 8
)

// Task is a named unit of background work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Dispatcher routes tasks to a fixed set of workers using consistent hashing
// on the task name, so runs of the same task never overlap.
type Dispatcher struct {
	workers []chan Task
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Task, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Task, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands the task to the worker responsible for its name. It never
// blocks: when that worker is backed up the task is dropped and false is
// returned.
func (d *Dispatcher) Enqueue(task Task) bool {
	select {
	case d.workers[d.shardIndex(task.Name)] <- task:
		return true
	default:
		metrics.SchedulerJobRunsTotal.WithLabelValues(task.Name, "dropped").Inc()
		d.log.Warn().Str("job", task.Name).Msg("worker busy, task dropped")
		return false
	}
}

// shardIndex maps a task name deterministically to a worker index.
func (d *Dispatcher) shardIndex(name string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Task) {
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-ch:
			if !ok {
				return
			}
			d.run(ctx, id, task)
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, id int, task Task) {
	start := time.Now()
	err := task.Run(ctx)
	metrics.SchedulerJobDuration.WithLabelValues(task.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.SchedulerJobRunsTotal.WithLabelValues(task.Name, "error").Inc()
		d.log.Error().Err(err).
			Str("job", task.Name).
			Int("worker_id", id).
			Msg("task failed")
		return
	}
	metrics.SchedulerJobRunsTotal.WithLabelValues(task.Name, "ok").Inc()
	d.log.Info().Str("job", task.Name).Dur("took", time.Since(start)).Msg("task completed")
}
