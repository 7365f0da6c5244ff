package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"ReturnScope/internal/model"
	"ReturnScope/internal/notifier"
	"ReturnScope/internal/pipeline"
	"ReturnScope/internal/recorder"
)

// Scheduler runs the ticker batch once or on a cron schedule and publishes
// the results.
type Scheduler struct {
	Cron     *cron.Cron
	Pipeline *pipeline.Pipeline
	Notifier notifier.Notifier
	Recorder recorder.Recorder
	Tickers  []string
	Ctx      context.Context

	runMu       sync.Mutex
	mu          sync.Mutex
	last        []model.Outcome
	lastAt      time.Time
	lastElapsed time.Duration
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, p *pipeline.Pipeline, n notifier.Notifier, rec recorder.Recorder, tickers []string) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		Pipeline: p,
		Notifier: n,
		Recorder: rec,
		Tickers:  tickers,
		Ctx:      ctx,
	}
}

// Register schedules the batch on a six-field cron expression.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() { s.RunNow() }); err != nil {
		return fmt.Errorf("register batch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running batch to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow runs one batch over every configured ticker and sends the formatted
// result. It returns nil without running when a batch is already in progress.
func (s *Scheduler) RunNow() []model.Outcome {
	if !s.runMu.TryLock() {
		log.Println("[WARN] batch already running, skipped")
		return nil
	}
	defer s.runMu.Unlock()
	return s.runBatch()
}

// startAsync starts a batch in the background and reports false when one is
// already in progress.
func (s *Scheduler) startAsync() bool {
	if !s.runMu.TryLock() {
		return false
	}
	go func() {
		defer s.runMu.Unlock()
		s.runBatch()
	}()
	return true
}

func (s *Scheduler) runBatch() []model.Outcome {
	log.Printf("[INFO] running batch for %d tickers", len(s.Tickers))
	start := s.Pipeline.Now()
	outcomes := s.Pipeline.Run(s.Ctx, s.Tickers)
	elapsed := s.Pipeline.Now().Sub(start)

	s.mu.Lock()
	s.last, s.lastAt, s.lastElapsed = outcomes, start, elapsed
	s.mu.Unlock()

	s.trySend(notifier.FormatBatch(outcomes, start, elapsed))
	return outcomes
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch fields[0] {
	case "/run":
		if !s.startAsync() {
			return "batch already running"
		}
		return "batch started"
	case "/status":
		return s.status()
	case "/history":
		if len(fields) < 2 {
			return "usage: /history SYMBOL"
		}
		return s.history(fields[1])
	case "/tickers":
		return strings.Join(s.Tickers, ", ")
	default:
		return "commands:\n/run - analyze all tickers now\n/status - last batch summary\n/history SYMBOL - recent runs\n/tickers - configured tickers"
	}
}

func (s *Scheduler) status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return "no batch has run yet"
	}
	return notifier.FormatSummary(s.last, s.lastAt, s.lastElapsed)
}

func (s *Scheduler) history(symbol string) string {
	runs, err := s.Recorder.RecentRuns(symbol, 5)
	if err != nil {
		log.Printf("[ERROR] load history %s: %v", symbol, err)
		return fmt.Sprintf("history unavailable: %v", err)
	}
	if len(runs) == 0 {
		return fmt.Sprintf("no recorded runs for %s", symbol)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s recent runs\n", symbol))
	for _, r := range runs {
		at := r.RunAt.Format("2006-01-02 15:04")
		if r.Status != recorder.StatusOK {
			b.WriteString(fmt.Sprintf("  %s %s: %s\n", at, r.Status, r.Error))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s: 3m %+.2f%%, 12m %+.2f%%, corr %+.3f\n",
			at, r.Status, r.Drawdown3M, r.Drawdown12M, r.Correlation))
	}
	return b.String()
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.Send(s.Ctx, text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
