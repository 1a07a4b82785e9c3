// Package outbox drains persistence commands toward the remote store.
// Local state is the source of truth; a command that fails is logged and
// dropped, never retried and never rolled back, so the caller is never
// blocked on network latency.
package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Op enumerates remote persistence operations.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Command is one queued write against a named remote collection.
// Record carries the payload for create/update; ID targets a delete.
type Command struct {
	Op         Op
	Collection string
	Record     interface{}
	ID         string
	Enqueued   time.Time
}

// Handler executes a command against the remote store.
type Handler func(context.Context, Command) error

// Config configures worker behaviour.
type Config struct {
	Workers    int
	BufferSize int
	Logger     *zap.Logger
	// OnResult, when set, observes every drained command outcome.
	OnResult func(cmd Command, err error)
}

// Queue is a buffered in-memory dispatcher backed by goroutines.
type Queue struct {
	handler  Handler
	workers  int
	logger   *zap.Logger
	onResult func(Command, error)

	commands chan Command
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	started  bool
}

// New builds a queue with the provided handler.
func New(handler Handler, cfg Config) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 16
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Queue{
		handler:  handler,
		workers:  cfg.Workers,
		logger:   cfg.Logger,
		onResult: cfg.OnResult,
		commands: make(chan Command, cfg.BufferSize),
	}
}

// Start begins worker consumption. Safe to call once.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.started = true
	q.logger.Sugar().Infow("outbox started", "workers", q.workers)
}

// Stop cancels workers and waits for them to exit. Buffered commands
// that have not been drained are abandoned.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()
	q.logger.Sugar().Infow("outbox stopped")
}

// Enqueue pushes a command without blocking. When the buffer is full the
// command is dropped and logged; the local mutation stands either way.
func (q *Queue) Enqueue(cmd Command) error {
	q.mu.Lock()
	started := q.started
	q.mu.Unlock()

	if !started {
		return fmt.Errorf("outbox not started")
	}
	if cmd.Enqueued.IsZero() {
		cmd.Enqueued = time.Now().UTC()
	}

	select {
	case q.commands <- cmd:
		return nil
	default:
		q.logger.Sugar().Errorw("outbox full, dropping command",
			"op", cmd.Op, "collection", cmd.Collection, "id", cmd.ID)
		if q.onResult != nil {
			q.onResult(cmd, fmt.Errorf("outbox full"))
		}
		return fmt.Errorf("outbox full")
	}
}

// Depth reports how many commands are waiting to be drained.
func (q *Queue) Depth() int {
	return len(q.commands)
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case cmd := <-q.commands:
			err := q.handler(q.ctx, cmd)
			if err != nil {
				// Deliberately no retry: local and remote state stay
				// diverged until the next full reload.
				q.logger.Sugar().Errorw("remote write failed",
					"op", cmd.Op, "collection", cmd.Collection, "id", cmd.ID, "error", err)
			}
			if q.onResult != nil {
				q.onResult(cmd, err)
			}
		}
	}
}
