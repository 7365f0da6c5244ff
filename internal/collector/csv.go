package collector

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"ReturnScope/internal/model"
)

// csvDateFormats are the date layouts accepted in the Date column.
var csvDateFormats = []string{
	time.DateOnly,
	"2006/01/02",
	"01/02/2006",
	"20060102",
}

// CSVFetcher implements Fetcher for endpoints serving a daily price table as
// CSV with a header row containing Date, Close and Adj Close columns.
// URLTemplate may contain {symbol} and {from_year} placeholders.
type CSVFetcher struct {
	URLTemplate string
	APIKey      string
	Client      *http.Client
	Now         func() time.Time
}

// NewCSVFetcher creates a CSV table fetcher with optional proxy support.
func NewCSVFetcher(urlTemplate, apiKey, proxyURL string) *CSVFetcher {
	return &CSVFetcher{
		URLTemplate: urlTemplate,
		APIKey:      apiKey,
		Client:      newHTTPClient(proxyURL),
		Now:         time.Now,
	}
}

func (f *CSVFetcher) Name() string { return "csv" }

func (f *CSVFetcher) endpoint(symbol string, fromYear int) string {
	r := strings.NewReplacer(
		"{symbol}", url.QueryEscape(symbol),
		"{from_year}", strconv.Itoa(fromYear),
	)
	return r.Replace(f.URLTemplate)
}

func (f *CSVFetcher) FetchDailyPrices(ctx context.Context, symbol string, fromYear int) (*model.PriceSeries, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint(symbol, fromYear), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: csv request: %v", ErrFetch, err)
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: csv: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("%w: csv: status %d, body: %s", ErrFetch, resp.StatusCode, string(body))
	}

	rows, err := parsePriceTable(resp.Body, fromYear)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	return buildSeries(symbol, f.Name(), rows, f.Now()), nil
}

// parsePriceTable reads a Date/Close/Adj Close table. Rows dated before
// January 1st of fromYear are dropped; every kept cell must parse.
func parsePriceTable(r io.Reader, fromYear int) ([]row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty table", ErrParse)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrParse, err)
	}

	dateCol, closeCol, adjCol := -1, -1, -1
	for i, h := range header {
		switch normalizeHeader(h) {
		case "date":
			dateCol = i
		case "close":
			closeCol = i
		case "adjclose", "adjustedclose":
			adjCol = i
		}
	}
	if dateCol < 0 || adjCol < 0 {
		return nil, fmt.Errorf("%w: header %v lacks Date or Adj Close column", ErrParse, header)
	}

	start := time.Date(fromYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	var rows []row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrParse, line, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) <= dateCol || len(rec) <= adjCol || (closeCol >= 0 && len(rec) <= closeCol) {
			return nil, fmt.Errorf("%w: line %d: expected %d fields, got %d", ErrParse, line, len(header), len(rec))
		}

		date, err := parseDate(rec[dateCol])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrParse, line, err)
		}
		if date.Before(start) {
			continue
		}

		adj := parseFloat(rec[adjCol])
		if !adj.Valid {
			return nil, fmt.Errorf("%w: line %d: adjusted close %q is not numeric", ErrParse, line, rec[adjCol])
		}
		var cl null.Float
		if closeCol >= 0 {
			cl = parseFloat(rec[closeCol])
			if !cl.Valid {
				return nil, fmt.Errorf("%w: line %d: close %q is not numeric", ErrParse, line, rec[closeCol])
			}
		}
		rows = append(rows, row{date: date, close: cl, adjClose: adj.Float64})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows since %d", ErrParse, fromYear)
	}
	return rows, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.NewReplacer(" ", "", "_", "", ".", "").Replace(h)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, format := range csvDateFormats {
		t, err := time.ParseInLocation(format, s, time.UTC)
		if err != nil {
			continue
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("error converting date %s to time.Time", s)
}

func parseFloat(val string) null.Float {
	val = strings.TrimSpace(val)
	if val != "" {
		if conv, err := strconv.ParseFloat(val, 64); err == nil {
			return null.NewFloat(conv, true)
		}
	}
	return null.NewFloat(0, false)
}
