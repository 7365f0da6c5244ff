package render

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ReturnScope/internal/model"
)

// Renderer persists or displays one labelled series for a symbol.
type Renderer interface {
	Render(symbol string, s model.Series) error
	Name() string
}

// NoopRenderer discards every series.
type NoopRenderer struct{}

func (NoopRenderer) Render(string, model.Series) error { return nil }
func (NoopRenderer) Name() string                      { return "noop" }

// CSVRenderer writes each series to <Dir>/<symbol>_<label>.csv with a
// date,value header, newest row first.
type CSVRenderer struct {
	Dir string
}

// NewCSVRenderer creates the output directory if needed.
func NewCSVRenderer(dir string) (*CSVRenderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &CSVRenderer{Dir: dir}, nil
}

func (r *CSVRenderer) Name() string { return "csv" }

// Path returns the file a series for symbol is written to.
func (r *CSVRenderer) Path(symbol, label string) string {
	return filepath.Join(r.Dir, fileName(symbol)+"_"+fileName(label)+".csv")
}

func (r *CSVRenderer) Render(symbol string, s model.Series) error {
	if len(s.Dates) != len(s.Values) {
		return fmt.Errorf("render %s %q: %d dates for %d values", symbol, s.Label, len(s.Dates), len(s.Values))
	}

	path := r.Path(symbol, s.Label)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render %s: %w", symbol, err)
	}

	w := csv.NewWriter(f)
	_ = w.Write([]string{"date", "value"})
	for i, v := range s.Values {
		_ = w.Write([]string{
			s.Dates[i].Format(time.DateOnly),
			strconv.FormatFloat(v, 'f', -1, 64),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// fileName lowercases s and replaces anything outside [a-z0-9.-] with '_'.
func fileName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
