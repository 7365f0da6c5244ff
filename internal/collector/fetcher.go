package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"ReturnScope/internal/model"
)

var (
	// ErrFetch reports an unreachable or failing remote data source.
	ErrFetch = errors.New("fetch failed")
	// ErrParse reports a malformed response, row or field.
	ErrParse = errors.New("parse failed")
)

// Fetcher defines the interface for fetching daily price history.
// Implementations return the series newest first.
type Fetcher interface {
	FetchDailyPrices(ctx context.Context, symbol string, fromYear int) (*model.PriceSeries, error)
	Name() string
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
