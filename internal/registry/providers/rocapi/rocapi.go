// Package rocapi integrates the Registrar of Companies data service, which
// authenticates with OAuth2 client credentials rather than static keys.
package rocapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/registrarlabs/namegate/internal/registry"
)

func init() {
	registry.Register(&ROC{})
}

// ROC searches the official registrar index.
type ROC struct {
	baseURL string
	http    *http.Client
}

func (r *ROC) Name() string { return "rocapi" }

// Configure sets up the OAuth2 token source. The returned client refreshes
// tokens automatically; per-call deadlines come from the request context.
func (r *ROC) Configure(clientID, clientSecret, tokenURL, baseURL string) {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	r.baseURL = baseURL
	r.http = cfg.Client(context.Background())
	r.http.Timeout = 10 * time.Second
}

type indexResponse struct {
	Companies []struct {
		Name string `json:"name"`
	} `json:"companies"`
}

func (r *ROC) Lookup(ctx context.Context, normalized string, opts registry.LookupOptions) ([]string, error) {
	if r.http == nil {
		return nil, fmt.Errorf("rocapi provider not configured")
	}

	u := fmt.Sprintf("%s/v1/names?q=%s&page_size=%d",
		r.baseURL, url.QueryEscape(normalized), opts.Limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("GET %s: status %d", u, resp.StatusCode)
	}

	var ir indexResponse
	if err := json.Unmarshal(body, &ir); err != nil {
		return nil, fmt.Errorf("parsing index response: %w", err)
	}

	names := make([]string, 0, len(ir.Companies))
	for _, c := range ir.Companies {
		if c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return names, nil
}
