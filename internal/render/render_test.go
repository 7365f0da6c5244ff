package render

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ReturnScope/internal/model"
)

func TestCSVRenderer_Render(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r, err := NewCSVRenderer(dir)
	require.NoError(t, err)

	d0 := time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC)
	s := model.Series{
		Label:  "3-month returns",
		Dates:  []time.Time{d0, d0.AddDate(0, 0, -1)},
		Values: []float64{1.5, -0.25},
	}
	require.NoError(t, r.Render("^GSPC", s))

	path := r.Path("^GSPC", s.Label)
	require.Equal(t, filepath.Join(dir, "_gspc_3-month_returns.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "date,value\n2024-03-08,1.5\n2024-03-07,-0.25\n", string(data))
}

func TestCSVRenderer_Misaligned(t *testing.T) {
	r, err := NewCSVRenderer(t.TempDir())
	require.NoError(t, err)

	err = r.Render("SPY", model.Series{Label: "x", Dates: []time.Time{{}}, Values: []float64{1, 2}})
	require.Error(t, err)
}

func TestCSVRenderer_UnwritableDir(t *testing.T) {
	r := &CSVRenderer{Dir: filepath.Join(t.TempDir(), "missing")}
	err := r.Render("SPY", model.Series{Label: "x"})
	require.Error(t, err)
}

func TestNoopRenderer(t *testing.T) {
	var r Renderer = NoopRenderer{}
	require.NoError(t, r.Render("SPY", model.Series{}))
	require.Equal(t, "noop", r.Name())
}
