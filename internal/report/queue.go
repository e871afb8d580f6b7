package report

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrQueueFull = errors.New("report generation queue is full")

type Job struct {
	ReportID    int64
	RequestedBy int64
}

type worker struct {
	id         int
	workerPool chan chan Job
	jobChannel chan Job
	logger     *slog.Logger
}

func newWorker(id int, workerPool chan chan Job, logger *slog.Logger) *worker {
	return &worker{
		id:         id,
		workerPool: workerPool,
		jobChannel: make(chan Job),
		logger:     logger,
	}
}

func (w *worker) start(ctx context.Context, wg *sync.WaitGroup, process func(Job)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.workerPool <- w.jobChannel:
			case <-ctx.Done():
				w.logger.Debug("report worker shutting down", "worker_id", w.id)
				return
			}

			select {
			case job := <-w.jobChannel:
				w.logger.Debug("report worker processing job", "worker_id", w.id, "report_id", job.ReportID)
				process(job)
			case <-ctx.Done():
				w.logger.Debug("report worker shutting down", "worker_id", w.id)
				return
			}
		}
	}()
}

type QueueConfig struct {
	MaxWorkers   int
	JobQueueSize int
	JobTimeout   time.Duration
}

// Queue runs report generation on a fixed pool of workers.
type Queue struct {
	processor  func(ctx context.Context, reportID int64) error
	jobTimeout time.Duration
	logger     *slog.Logger

	jobQueue   chan Job
	workerPool chan chan Job
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewQueue(config QueueConfig, processor func(ctx context.Context, reportID int64) error, logger *slog.Logger) *Queue {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 2
	}
	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 50
	}
	jobTimeout := config.JobTimeout
	if jobTimeout <= 0 {
		jobTimeout = 2 * time.Minute
	}

	q := &Queue{
		processor:  processor,
		jobTimeout: jobTimeout,
		logger:     logger,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan Job, jobQueueSize),
		workerPool: make(chan chan Job, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.maxWorkers; i++ {
			newWorker(i, q.workerPool, q.logger).start(q.ctx, &q.wg, q.process)
		}

		q.wg.Add(1)
		go q.dispatch()

		q.logger.Info("report worker pool started",
			"max_workers", q.maxWorkers,
			"queue_size", cap(q.jobQueue))
	})
}

func (q *Queue) dispatch() {
	defer q.wg.Done()

	for {
		select {
		case job := <-q.jobQueue:
			select {
			case jobChannel := <-q.workerPool:
				select {
				case jobChannel <- job:
				case <-q.ctx.Done():
					return
				}
			case <-q.ctx.Done():
				return
			}
		case <-q.ctx.Done():
			q.logger.Info("report dispatcher shutting down")
			return
		}
	}
}

func (q *Queue) process(job Job) {
	ctx, cancel := context.WithTimeout(q.ctx, q.jobTimeout)
	defer cancel()

	if err := q.processor(ctx, job.ReportID); err != nil {
		q.logger.Error("report generation failed",
			"error", err,
			"report_id", job.ReportID,
			"requested_by", job.RequestedBy)
		return
	}
	q.logger.Info("report generation finished", "report_id", job.ReportID)
}

// Enqueue hands a job to the pool without blocking.
func (q *Queue) Enqueue(job Job) error {
	select {
	case q.jobQueue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *Queue) Shutdown() {
	q.logger.Info("shutting down report worker pool")
	q.cancel()
	q.wg.Wait()
	q.logger.Info("report worker pool shutdown complete")
}
