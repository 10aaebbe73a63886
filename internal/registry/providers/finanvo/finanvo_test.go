package finanvo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/registrarlabs/namegate/internal/httpclient"
	"github.com/registrarlabs/namegate/internal/registry"
)

func TestLookupParsesSearchResults(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("name")
		gotKey = r.Header.Get("x-api-key")
		w.Write([]byte(`{"data":[
			{"company_name":"Tech Solutions Private Limited","cin":"U72200MH2010PTC000001","status":"Active"},
			{"company_name":"","cin":"U72200MH2011PTC000002","status":"Active"},
			{"company_name":"Techno Solutions Pvt Ltd","cin":"U72200DL2015PTC000003","status":"Active"}
		]}`))
	}))
	defer srv.Close()

	f := &Finanvo{}
	f.Configure("key", "secret", srv.URL, httpclient.New())

	names, err := f.Lookup(context.Background(), "tech solutions", registry.LookupOptions{Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/company/search" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "tech solutions" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotKey != "key" {
		t.Errorf("x-api-key = %q", gotKey)
	}

	want := []string{"Tech Solutions Private Limited", "Techno Solutions Pvt Ltd"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestLookupUnconfigured(t *testing.T) {
	f := &Finanvo{}
	if _, err := f.Lookup(context.Background(), "tech solutions", registry.LookupOptions{Limit: 10}); err == nil {
		t.Error("expected error for unconfigured provider")
	}
}

func TestLookupUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := &Finanvo{}
	f.Configure("key", "secret", srv.URL, httpclient.New())

	if _, err := f.Lookup(context.Background(), "tech solutions", registry.LookupOptions{Limit: 10}); err == nil {
		t.Error("expected error for throttled upstream")
	}
}

func TestLookupMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	f := &Finanvo{}
	f.Configure("key", "secret", srv.URL, httpclient.New())

	if _, err := f.Lookup(context.Background(), "tech solutions", registry.LookupOptions{Limit: 10}); err == nil {
		t.Error("expected error for non-JSON response")
	}
}
