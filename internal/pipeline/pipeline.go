package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"ReturnScope/internal/analyzer"
	"ReturnScope/internal/collector"
	"ReturnScope/internal/model"
	"ReturnScope/internal/recorder"
	"ReturnScope/internal/render"
)

// Pipeline fetches, analyzes, renders and records each ticker of a batch.
// A failure aborts only the ticker it belongs to.
type Pipeline struct {
	Collector *collector.Collector
	Analyzer  *analyzer.Analyzer
	Renderer  render.Renderer
	Recorder  recorder.Recorder
	// Workers > 1 processes that many tickers concurrently.
	Workers int
	Now     func() time.Time
}

// New creates a sequential Pipeline with noop rendering and recording.
func New(col *collector.Collector, an *analyzer.Analyzer) *Pipeline {
	return &Pipeline{
		Collector: col,
		Analyzer:  an,
		Renderer:  render.NoopRenderer{},
		Recorder:  recorder.NewNoopRecorder(),
		Workers:   1,
		Now:       time.Now,
	}
}

// Run processes tickers and returns one outcome per ticker in input order.
// Once ctx is done no further ticker is started; those left over carry the
// context error.
func (p *Pipeline) Run(ctx context.Context, tickers []string) []model.Outcome {
	out := make([]model.Outcome, len(tickers))

	if p.Workers <= 1 {
		for i, sym := range tickers {
			out[i] = p.process(ctx, sym)
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(p.Workers)
	for i, sym := range tickers {
		g.Go(func() error {
			out[i] = p.process(ctx, sym)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (p *Pipeline) process(ctx context.Context, symbol string) model.Outcome {
	o := model.Outcome{Symbol: symbol, Source: p.Collector.Fetcher.Name(), Started: p.Now()}
	if err := ctx.Err(); err != nil {
		o.Err = fmt.Errorf("skipped: %w", err)
		return o
	}

	o.Report, o.Err = p.analyze(ctx, symbol)
	o.Duration = p.Now().Sub(o.Started)

	if o.Err != nil {
		log.Printf("[ERROR] %s: %v", symbol, o.Err)
	} else {
		log.Printf("[INFO] %s: analyzed %d observations in %v", symbol, o.Report.Observations, o.Duration.Round(time.Millisecond))
		p.render(o.Report)
	}

	if err := p.Recorder.RecordRun(recorder.EventFromOutcome(o)); err != nil {
		log.Printf("[ERROR] record run %s: %v", symbol, err)
	}
	return o
}

func (p *Pipeline) analyze(ctx context.Context, symbol string) (*model.TickerReport, error) {
	series, err := p.Collector.Collect(ctx, symbol)
	if err != nil {
		return nil, err
	}
	report, err := p.Analyzer.Analyze(series)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", symbol, err)
	}
	return report, nil
}

func (p *Pipeline) render(report *model.TickerReport) {
	for _, s := range report.Series() {
		if err := p.Renderer.Render(report.Symbol, s); err != nil {
			log.Printf("[WARN] render %s %q via %s: %v", report.Symbol, s.Label, p.Renderer.Name(), err)
		}
	}
}
