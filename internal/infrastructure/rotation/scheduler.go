package rotation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TickFunc is invoked on every rotation interval while a task is active.
type TickFunc func()

// task represents one active rotation timer
type task struct {
	cancel context.CancelFunc
}

// Scheduler owns the carousel rotation timers. Each session holds at most one
// task; scheduling for a session that already has one replaces it. Tasks are
// cancelled individually when an overlay closes or pauses, and collectively
// when the scheduler stops.
type Scheduler struct {
	interval time.Duration
	logger   *zap.Logger

	mu        sync.Mutex
	isRunning bool
	rootCtx   context.Context
	cancel    context.CancelFunc
	tasks     map[string]*task
	wg        sync.WaitGroup
}

// NewScheduler creates a rotation scheduler firing at the given interval
func NewScheduler(interval time.Duration, logger *zap.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		interval: interval,
		logger:   logger,
		tasks:    make(map[string]*task),
	}, nil
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	s.isRunning = true
	s.rootCtx, s.cancel = context.WithCancel(ctx)

	s.logger.Info("rotation scheduler started",
		zap.Duration("interval", s.interval),
	)
	return nil
}

// Stop cancels all active tasks and waits for their goroutines to exit
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	if s.cancel != nil {
		s.cancel()
	}
	for sessionID, t := range s.tasks {
		t.cancel()
		delete(s.tasks, sessionID)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("rotation scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("rotation scheduler stop timed out")
		return ctx.Err()
	}
}

// Schedule starts a rotation task for the session, replacing any existing one.
// The tick callback runs on the task goroutine once per interval until the
// task is cancelled.
func (s *Scheduler) Schedule(sessionID string, tick TickFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return ErrSchedulerNotRunning
	}

	if existing, ok := s.tasks[sessionID]; ok {
		existing.cancel()
	}

	taskCtx, cancel := context.WithCancel(s.rootCtx)
	s.tasks[sessionID] = &task{cancel: cancel}

	s.wg.Add(1)
	go s.run(taskCtx, sessionID, tick)

	s.logger.Debug("rotation task scheduled",
		zap.String("session_id", sessionID),
	)
	return nil
}

// Cancel stops the session's rotation task if one is active
func (s *Scheduler) Cancel(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[sessionID]
	if !ok {
		return
	}
	t.cancel()
	delete(s.tasks, sessionID)

	s.logger.Debug("rotation task cancelled",
		zap.String("session_id", sessionID),
	)
}

// ActiveTasks returns the number of sessions with a running rotation task
func (s *Scheduler) ActiveTasks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// run drives one task's ticker until its context is cancelled
func (s *Scheduler) run(ctx context.Context, sessionID string, tick TickFunc) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}
