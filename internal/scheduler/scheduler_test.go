package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ReturnScope/internal/analyzer"
	"ReturnScope/internal/collector"
	"ReturnScope/internal/notifier"
	"ReturnScope/internal/pipeline"
	"ReturnScope/internal/recorder"
)

func newTestScheduler(t *testing.T) (*Scheduler, *bytes.Buffer) {
	t.Helper()
	fetcher := &collector.MockFetcher{
		Errors: map[string]error{"GDX": fmt.Errorf("%w: status 404", collector.ErrFetch)},
	}
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	p := pipeline.New(collector.NewCollector(fetcher, 1995), analyzer.New(analyzer.DefaultParams()))
	p.Recorder = rec

	var out bytes.Buffer
	s := NewScheduler(context.Background(), p, notifier.NewConsoleNotifier(&out), rec, []string{"SPY", "GDX"})
	return s, &out
}

func TestRunNow_PrintsBatch(t *testing.T) {
	s, out := newTestScheduler(t)

	outcomes := s.RunNow()
	require.Len(t, outcomes, 2)
	require.Contains(t, out.String(), "SPY |")
	require.Contains(t, out.String(), "GDX | FAILED")
	require.Contains(t, out.String(), "2 tickers: 1 ok, 1 failed")
}

func TestHandleCommand(t *testing.T) {
	s, _ := newTestScheduler(t)

	require.Equal(t, "no batch has run yet", s.HandleCommand("/status"))
	require.Equal(t, "SPY, GDX", s.HandleCommand("/tickers"))
	require.Contains(t, s.HandleCommand("/history"), "usage")
	require.Contains(t, s.HandleCommand("/history SPY"), "no recorded runs")
	require.Contains(t, s.HandleCommand("hello"), "/run")

	s.RunNow()
	require.Contains(t, s.HandleCommand("/status"), "failed: GDX")
	require.Contains(t, s.HandleCommand("/history SPY"), "SPY recent runs")
	require.Contains(t, s.HandleCommand("/history GDX"), "FAILED")
}

func TestRegister(t *testing.T) {
	s, _ := newTestScheduler(t)
	require.NoError(t, s.Register("0 30 22 * * 1-5"))
	require.Len(t, s.Cron.Entries(), 1)
	require.Error(t, s.Register("every day"))
}

func TestHandleCommand_RunWhileBusy(t *testing.T) {
	s, out := newTestScheduler(t)

	s.runMu.Lock()
	require.Equal(t, "batch already running", s.HandleCommand("/run"))
	require.Nil(t, s.RunNow())
	s.runMu.Unlock()
	require.Empty(t, out.String())

	require.Equal(t, "batch started", s.HandleCommand("/run"))
	s.runMu.Lock()
	s.runMu.Unlock()
	require.Contains(t, out.String(), "2 tickers: 1 ok, 1 failed")
}
