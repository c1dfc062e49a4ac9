package amazon

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/rex/internal/domain"
)

const productPage = `<!doctype html>
<html><head>
<title>Amazon.com: Kindle Paperwhite</title>
<meta property="og:description" content="Our thinnest Kindle.">
<meta name="twitter:image" content="https://m.media-amazon.com/images/I/twitter.jpg">
</head><body>
<div id="title"><span id="productTitle">
   Kindle   Paperwhite (16 GB)
</span></div>
<div id="imgTagWrapperId"><img id="landingImage" src="https://m.media-amazon.com/images/I/src.jpg"></div>
</body></html>`

func TestParse_MetaTagsAndSelectors(t *testing.T) {
	meta, err := Parse(strings.NewReader(productPage))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if meta.Title != "Kindle Paperwhite (16 GB)" {
		t.Errorf("expected #productTitle text, got %q", meta.Title)
	}
	if meta.Description != "Our thinnest Kindle." {
		t.Errorf("unexpected description %q", meta.Description)
	}
	if meta.Image != "https://m.media-amazon.com/images/I/twitter.jpg" {
		t.Errorf("expected twitter:image, got %q", meta.Image)
	}
}

func TestParse_OpenGraphWins(t *testing.T) {
	page := `<html><head>
<meta property="og:title" content="OG Title">
<meta property="og:image" content="https://img/og.jpg">
<meta property="og:image:secure_url" content="https://img/secure.jpg">
</head><body><span id="productTitle">Selector Title</span></body></html>`

	meta, err := Parse(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	if meta.Title != "OG Title" {
		t.Errorf("expected og:title, got %q", meta.Title)
	}
	if meta.Image != "https://img/secure.jpg" {
		t.Errorf("expected secure_url first, got %q", meta.Image)
	}
}

func TestParse_LandingImageFallbacks(t *testing.T) {
	tests := []struct {
		name string
		img  string
		want string
	}{
		{"old hires", `<img id="landingImage" data-old-hires="https://img/hires.jpg" src="https://img/src.jpg">`, "https://img/hires.jpg"},
		{"dynamic map", `<img id="landingImage" data-a-dynamic-image='{"https://img/big.jpg":[1500,1500],"https://img/small.jpg":[300,300]}' src="https://img/src.jpg">`, "https://img/big.jpg"},
		{"src", `<img id="landingImage" src="https://img/src.jpg">`, "https://img/src.jpg"},
		{"wrapper img", `<div id="imgTagWrapperId"><img src="https://img/wrapped.jpg"></div>`, "https://img/wrapped.jpg"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			meta, err := Parse(strings.NewReader("<html><body>" + tc.img + "</body></html>"))
			if err != nil {
				t.Fatal(err)
			}
			if meta.Image != tc.want {
				t.Errorf("got %q, want %q", meta.Image, tc.want)
			}
		})
	}
}

func TestParse_DocumentTitleLastResort(t *testing.T) {
	meta, err := Parse(strings.NewReader("<html><head><title> Plain </title></head></html>"))
	if err != nil {
		t.Fatal(err)
	}
	if meta.Title != "Plain" {
		t.Errorf("expected <title> text, got %q", meta.Title)
	}
}

func TestFetcher_SendsBrowserHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("User-Agent"), "Mozilla/5.0") {
			t.Errorf("expected browser user agent, got %q", r.Header.Get("User-Agent"))
		}
		if r.Header.Get("Referer") != "https://www.amazon.com/" {
			t.Errorf("unexpected referer %q", r.Header.Get("Referer"))
		}
		_, _ = w.Write([]byte(productPage))
	}))
	defer server.Close()

	meta, err := NewFetcher(server.Client(), time.Second).Fetch(context.Background(), server.URL+"/dp/B00ZV9PXP2")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if meta.IsZero() {
		t.Error("expected metadata")
	}
}

func TestFetcher_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewFetcher(server.Client(), time.Second).Fetch(context.Background(), server.URL)
	if !errors.Is(err, domain.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
}

func TestFetcher_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	start := time.Now()
	_, err := NewFetcher(server.Client(), 50*time.Millisecond).Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > time.Second {
		t.Errorf("fetch was not bounded by the timeout")
	}
}
