package notification

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

type Worker struct {
	ID         int
	WorkerPool chan chan Message
	JobChannel chan Message
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Message, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Message),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, deliver func(Message)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-ctx.Done():
				w.Logger.Debug("notification worker shutting down", "worker_id", w.ID)
				return
			}

			select {
			case msg := <-w.JobChannel:
				w.Logger.Debug("worker delivering notification", "worker_id", w.ID, "message_id", msg.ID)
				deliver(msg)
			case <-ctx.Done():
				w.Logger.Debug("notification worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type DispatcherConfig struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

// Dispatcher delivers messages on a bounded worker pool. Enqueue never blocks;
// when the queue is full the message is dropped and logged.
type Dispatcher struct {
	sender      Sender
	logger      *slog.Logger
	sendTimeout time.Duration

	jobQueue   chan Message
	workerPool chan chan Message
	maxWorkers int
	pending    sync.WaitGroup
	mu         sync.RWMutex
	closed     bool
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once

	sent    atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

func NewDispatcher(sender Sender, cfg DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := cfg.Workers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	sendTimeout := cfg.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}

	d := &Dispatcher{
		sender:      sender,
		logger:      logger,
		sendTimeout: sendTimeout,
		maxWorkers:  maxWorkers,
		jobQueue:    make(chan Message, queueSize),
		workerPool:  make(chan chan Message, maxWorkers),
		ctx:         ctx,
		cancel:      cancel,
	}
	d.start()
	return d
}

func (d *Dispatcher) start() {
	d.once.Do(func() {
		for i := 0; i < d.maxWorkers; i++ {
			NewWorker(i, d.workerPool, d.logger).Start(d.ctx, &d.wg, d.deliver)
		}

		d.wg.Add(1)
		go d.dispatch()

		d.logger.Info("notification worker pool started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue))
	})
}

func (d *Dispatcher) dispatch() {
	defer d.wg.Done()

	for {
		select {
		case msg := <-d.jobQueue:
			select {
			case jobChannel := <-d.workerPool:
				select {
				case jobChannel <- msg:
				case <-d.ctx.Done():
					d.pending.Done()
					return
				}
			case <-d.ctx.Done():
				d.pending.Done()
				return
			}
		case <-d.ctx.Done():
			d.logger.Debug("notification dispatcher shutting down")
			return
		}
	}
}

// Enqueue reports whether the message was accepted.
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.dropped.Add(1)
		d.logger.Warn("notification dropped: dispatcher closed", "message_id", msg.ID, "kind", msg.Kind)
		return false
	}

	d.pending.Add(1)
	select {
	case d.jobQueue <- msg:
		d.logger.Debug("notification queued",
			"message_id", msg.ID,
			"kind", msg.Kind,
			"queue_length", len(d.jobQueue))
		return true
	default:
		d.pending.Done()
		d.dropped.Add(1)
		d.logger.Warn("notification queue full, dropping message",
			"message_id", msg.ID,
			"kind", msg.Kind,
			"to", msg.To,
			"queue_capacity", cap(d.jobQueue))
		return false
	}
}

func (d *Dispatcher) deliver(msg Message) {
	defer d.pending.Done()

	ctx, cancel := context.WithTimeout(d.ctx, d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		d.failed.Add(1)
		d.logger.Error("notification delivery failed",
			"message_id", msg.ID,
			"kind", msg.Kind,
			"to", msg.To,
			"error", err)
		return
	}
	d.sent.Add(1)
}

type Stats struct {
	Sent     int64
	Failed   int64
	Dropped  int64
	Queued   int
	Capacity int
	Closed   bool
}

func (d *Dispatcher) Stats() Stats {
	d.mu.RLock()
	closed := d.closed
	d.mu.RUnlock()

	return Stats{
		Sent:     d.sent.Load(),
		Failed:   d.failed.Load(),
		Dropped:  d.dropped.Load(),
		Queued:   len(d.jobQueue),
		Capacity: cap(d.jobQueue),
		Closed:   closed,
	}
}

// Shutdown stops accepting messages, waits for queued ones until ctx is done, then stops the workers.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.logger.Info("shutting down notification dispatcher")
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		d.pending.Wait()
		close(drained)
	}()

	var err error
	select {
	case <-drained:
	case <-ctx.Done():
		err = ctx.Err()
		d.logger.Warn("notification dispatcher shutdown timed out", "queued", len(d.jobQueue))
	}

	d.cancel()
	d.wg.Wait()
	d.logger.Info("notification dispatcher shutdown complete",
		"sent", d.sent.Load(),
		"failed", d.failed.Load(),
		"dropped", d.dropped.Load())
	return err
}
