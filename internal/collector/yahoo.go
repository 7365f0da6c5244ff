package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"time"
	_ "time/tzdata"

	"github.com/guregu/null/v6"

	"ReturnScope/internal/model"
)

// DefaultYahooBaseURL is the Yahoo Finance chart API host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public chart API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
	Now       func() time.Time
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: DefaultYahooBaseURL,
		Client:  newHTTPClient(proxyURL),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"VIX":    "^VIX",
		},
		Now: time.Now,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string `json:"symbol"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []null.Float `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []null.Float `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDailyPrices downloads daily closes from January 1st of fromYear until now.
func (f *YahooFetcher) FetchDailyPrices(ctx context.Context, symbol string, fromYear int) (*model.PriceSeries, error) {
	start := time.Date(fromYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := f.Now().UTC()
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div%%2Csplit&includeAdjustedClose=true",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo request: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo read body: %v", ErrFetch, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: yahoo: status %d, body: %s", ErrFetch, resp.StatusCode, truncate(body, 256))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("%w: yahoo decode: %v", ErrParse, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: yahoo api error: %s", ErrFetch, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("%w: yahoo: no data returned for %s", ErrParse, symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.AdjClose) == 0 {
		return nil, fmt.Errorf("%w: yahoo: missing close or adjclose for %s", ErrParse, symbol)
	}
	closes := result.Indicators.Quote[0].Close
	adj := result.Indicators.AdjClose[0].AdjClose
	if len(closes) != len(result.Timestamp) || len(adj) != len(result.Timestamp) {
		return nil, fmt.Errorf("%w: yahoo: %d timestamps, %d closes, %d adjusted closes",
			ErrParse, len(result.Timestamp), len(closes), len(adj))
	}

	loc := exchangeLocation(result.Meta.ExchangeTimezoneName)
	rows := make([]row, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if !closes[i].Valid && !adj[i].Valid {
			continue // skip null bars (holidays etc.)
		}
		if !closes[i].Valid || !adj[i].Valid {
			return nil, fmt.Errorf("%w: yahoo: partial bar at %s", ErrParse, time.Unix(ts, 0).UTC().Format(time.DateOnly))
		}
		local := time.Unix(ts, 0).In(loc)
		rows = append(rows, row{
			date:     time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
			close:    closes[i],
			adjClose: adj[i].Float64,
		})
	}

	return buildSeries(symbol, f.Name(), rows, f.Now()), nil
}

func exchangeLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[WARN] unknown exchange time zone %q, using UTC", name)
		return time.UTC
	}
	return loc
}

// row is one parsed trading day before ordering.
type row struct {
	date     time.Time
	close    null.Float // null when the source has no raw close column
	adjClose float64
}

// buildSeries orders rows newest first and splits them into a PriceSeries.
// Closes stays nil unless every row carries a raw close.
func buildSeries(symbol, source string, rows []row, fetchedAt time.Time) *model.PriceSeries {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].date.After(rows[j].date) })
	s := &model.PriceSeries{
		Symbol:    symbol,
		Dates:     make([]time.Time, len(rows)),
		Prices:    make([]float64, len(rows)),
		FetchedAt: fetchedAt,
		Source:    source,
	}
	withCloses := len(rows) > 0
	for i, r := range rows {
		s.Dates[i] = r.date
		s.Prices[i] = r.adjClose
		withCloses = withCloses && r.close.Valid
	}
	if withCloses {
		s.Closes = make([]float64, len(rows))
		for i, r := range rows {
			s.Closes[i] = r.close.Float64
		}
	}
	return s
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
