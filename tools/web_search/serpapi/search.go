package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/KS2225/AI-report-writer/tools/web_search/models"
	"github.com/KS2225/AI-report-writer/utils"
)

const baseURL = "https://serpapi.com/search.json"

type Search struct {
	ApiKey string
	Client *http.Client
	// BaseURL overrides the SerpAPI endpoint, used in tests.
	BaseURL string
}

func (s Search) Search(ctx context.Context, q string, k int) ([]models.Result, error) {
	// https://serpapi.com/search-api
	endpoint := s.BaseURL
	if endpoint == "" {
		endpoint = baseURL
	}
	url := fmt.Sprintf("%s?engine=google&q=%s&num=%d&api_key=%s", endpoint, utils.UrlQuery(q), k, s.ApiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	httpc := s.Client
	if httpc == nil {
		httpc = http.DefaultClient
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi status %d", resp.StatusCode)
	}

	var raw struct {
		OrganicResults []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic_results"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	if raw.Error != "" {
		return nil, fmt.Errorf("serpapi: %s", raw.Error)
	}

	var out []models.Result
	for i, r := range raw.OrganicResults {
		if i >= k {
			break
		}
		out = append(out, models.Normalize(models.Result{Title: r.Title, URL: r.Link, Snippet: r.Snippet}))
	}
	return out, nil
}
