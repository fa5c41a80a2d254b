package web_search

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/KS2225/AI-report-writer/tools/web_search/models"
	"github.com/KS2225/AI-report-writer/tools/web_search/serpapi"
	"github.com/KS2225/AI-report-writer/tools/web_search/serper"
)

// WebSearcher fetches ranked organic web results for a query.
type WebSearcher interface {
	Search(ctx context.Context, q string, k int) ([]models.Result, error)
}

type Provider string

const (
	SerpAPIProvider Provider = "serpapi"
	SerperProvider  Provider = "serper"
)

var ErrUnsupportedProvider = errors.New("unsupported search provider")

func NewWebSearcher(provider Provider, apiKey string, timeout time.Duration) (WebSearcher, error) {
	httpc := &http.Client{Timeout: timeout}
	switch provider {
	case SerpAPIProvider:
		return serpapi.Search{ApiKey: apiKey, Client: httpc}, nil
	case SerperProvider:
		return serper.Search{ApiKey: apiKey, Client: httpc}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
