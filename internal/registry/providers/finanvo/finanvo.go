package finanvo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/registrarlabs/namegate/internal/httpclient"
	"github.com/registrarlabs/namegate/internal/registry"
)

func init() {
	registry.Register(&Finanvo{})
}

// Finanvo searches the Finanvo company database for registered names.
type Finanvo struct {
	apiKey    string
	apiSecret string
	baseURL   string
	client    *httpclient.Client
}

func (f *Finanvo) Name() string { return "finanvo" }

// Configure sets up the provider with API credentials and the shared client.
func (f *Finanvo) Configure(apiKey, apiSecret, baseURL string, client *httpclient.Client) {
	f.apiKey = apiKey
	f.apiSecret = apiSecret
	f.baseURL = baseURL
	f.client = client
}

// Finanvo name-search response types.
type searchResponse struct {
	Data []searchHit `json:"data"`
}

type searchHit struct {
	CompanyName string `json:"company_name"`
	CIN         string `json:"cin"`
	Status      string `json:"status"`
}

func (f *Finanvo) Lookup(ctx context.Context, normalized string, opts registry.LookupOptions) ([]string, error) {
	if f.client == nil {
		return nil, fmt.Errorf("finanvo provider not configured")
	}

	u := fmt.Sprintf("%s/company/search?name=%s&limit=%d",
		f.baseURL, url.QueryEscape(normalized), opts.Limit)

	headers := map[string]string{
		"Content-Type":     "application/json",
		"x-api-key":        f.apiKey,
		"x-api-secret-key": f.apiSecret,
	}

	resp, err := f.client.Get(ctx, u, headers)
	if err != nil {
		return nil, err
	}

	var sr searchResponse
	if err := json.Unmarshal(resp.Body, &sr); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	names := make([]string, 0, len(sr.Data))
	for _, hit := range sr.Data {
		if hit.CompanyName == "" {
			continue
		}
		names = append(names, hit.CompanyName)
	}

	slog.Debug("finanvo search complete", "query", normalized,
		"hits", len(sr.Data), "from_cache", resp.FromCache)
	return names, nil
}
