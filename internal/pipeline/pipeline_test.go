package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ReturnScope/internal/analyzer"
	"ReturnScope/internal/calculator"
	"ReturnScope/internal/collector"
	"ReturnScope/internal/model"
	"ReturnScope/internal/recorder"
	"ReturnScope/internal/render"
)

type memRecorder struct {
	recorder.NoopRecorder
	mu     sync.Mutex
	events []*recorder.RunEvent
}

func (m *memRecorder) RecordRun(evt *recorder.RunEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	return nil
}

type brokenRenderer struct{ calls int }

func (b *brokenRenderer) Name() string { return "broken" }
func (b *brokenRenderer) Render(string, model.Series) error {
	b.calls++
	return errors.New("disk full")
}

func newTestPipeline(fetcher *collector.MockFetcher) (*Pipeline, *memRecorder) {
	p := New(collector.NewCollector(fetcher, 1995), analyzer.New(analyzer.DefaultParams()))
	rec := &memRecorder{}
	p.Recorder = rec
	return p, rec
}

func TestRun_IsolatesFailures(t *testing.T) {
	last := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	fetcher := &collector.MockFetcher{
		Series: map[string]*model.PriceSeries{
			"SHORT": collector.GenerateMockSeries("SHORT", 50, 100, last),
		},
		Errors: map[string]error{
			"DOWN": fmt.Errorf("%w: status 503", collector.ErrFetch),
		},
	}
	p, rec := newTestPipeline(fetcher)

	outcomes := p.Run(context.Background(), []string{"SPY", "DOWN", "SHORT", "GS"})
	require.Len(t, outcomes, 4)

	require.True(t, outcomes[0].OK())
	require.Equal(t, "SPY", outcomes[0].Report.Symbol)

	require.False(t, outcomes[1].OK())
	require.ErrorIs(t, outcomes[1].Err, collector.ErrFetch)

	require.False(t, outcomes[2].OK())
	require.ErrorIs(t, outcomes[2].Err, calculator.ErrDegenerateInput)

	require.True(t, outcomes[3].OK())
	require.Equal(t, []string{"DOWN", "SHORT"}, model.Failed(outcomes))

	require.Len(t, rec.events, 4)
	require.Equal(t, recorder.StatusFailed, rec.events[1].Status)
	require.Equal(t, "mock", rec.events[0].Source)
}

func TestRun_ParallelPreservesOrder(t *testing.T) {
	tickers := []string{"DIA", "^GSPC", "SPY", "GDX", "GOOG", "GS", "F", "JNJ"}
	fetcher := &collector.MockFetcher{
		Errors: map[string]error{"GDX": fmt.Errorf("%w: bad table", collector.ErrParse)},
	}
	p, rec := newTestPipeline(fetcher)
	p.Workers = 3

	outcomes := p.Run(context.Background(), tickers)
	require.Len(t, outcomes, len(tickers))
	for i, o := range outcomes {
		require.Equal(t, tickers[i], o.Symbol)
		if o.Symbol == "GDX" {
			require.ErrorIs(t, o.Err, collector.ErrParse)
			continue
		}
		require.True(t, o.OK(), "%s: %v", o.Symbol, o.Err)
	}
	require.Len(t, rec.events, len(tickers))
}

func TestRun_CancelledContextStartsNothing(t *testing.T) {
	p, rec := newTestPipeline(&collector.MockFetcher{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := p.Run(ctx, []string{"SPY", "GS"})
	for _, o := range outcomes {
		require.ErrorIs(t, o.Err, context.Canceled)
	}
	require.Empty(t, rec.events)
}

func TestRun_RenderFailureDoesNotFailTicker(t *testing.T) {
	p, _ := newTestPipeline(&collector.MockFetcher{})
	br := &brokenRenderer{}
	p.Renderer = br

	outcomes := p.Run(context.Background(), []string{"SPY"})
	require.True(t, outcomes[0].OK())
	require.Equal(t, 6, br.calls)
}

func TestRun_WritesCSVSeries(t *testing.T) {
	p, _ := newTestPipeline(&collector.MockFetcher{})
	r, err := render.NewCSVRenderer(t.TempDir())
	require.NoError(t, err)
	p.Renderer = r

	outcomes := p.Run(context.Background(), []string{"SPY"})
	require.True(t, outcomes[0].OK())
	for _, s := range outcomes[0].Report.Series() {
		_, err := os.Stat(r.Path("SPY", s.Label))
		require.NoError(t, err, s.Label)
	}
}
