package discovery

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDiscoverFeedFromHTML(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		baseURL string
		wantURL string
		wantErr bool
	}{
		{
			name: "rss feed with relative href",
			html: `<html><head>
<link rel="alternate" type="application/rss+xml" href="/feed.xml">
</head><body></body></html>`,
			baseURL: "https://example.com/blog",
			wantURL: "https://example.com/feed.xml",
		},
		{
			name: "atom feed with absolute href",
			html: `<html><head>
<link rel="alternate" type="application/atom+xml" href="https://example.com/atom.xml">
</head><body></body></html>`,
			baseURL: "https://example.com",
			wantURL: "https://example.com/atom.xml",
		},
		{
			name: "relative href resolved against page path",
			html: `<html><head>
<link rel="alternate" type="application/rss+xml" href="feed.xml">
</head></html>`,
			baseURL: "https://example.com/blog/post.html",
			wantURL: "https://example.com/blog/feed.xml",
		},
		{
			name: "first of multiple feeds wins",
			html: `<html><head>
<link rel="alternate" type="application/rss+xml" href="/rss.xml">
<link rel="alternate" type="application/atom+xml" href="/atom.xml">
</head></html>`,
			baseURL: "https://example.com",
			wantURL: "https://example.com/rss.xml",
		},
		{
			name:    "no feed link",
			html:    `<html><head><title>Nothing here</title></head></html>`,
			baseURL: "https://example.com",
			wantErr: true,
		},
		{
			name: "stylesheet link ignored",
			html: `<html><head>
<link rel="stylesheet" type="text/css" href="/style.css">
</head></html>`,
			baseURL: "https://example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotURL, err := DiscoverFeedFromHTML(tt.html, tt.baseURL)
			if (err != nil) != tt.wantErr {
				t.Errorf("DiscoverFeedFromHTML() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if gotURL != tt.wantURL {
				t.Errorf("DiscoverFeedFromHTML() = %v, want %v", gotURL, tt.wantURL)
			}
		})
	}
}

func TestDiscoverFeedReturnsFeedURLDirectly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel></channel></rss>`))
	}))
	defer server.Close()

	got, err := DiscoverFeed(server.URL)
	if err != nil {
		t.Fatalf("DiscoverFeed() error = %v", err)
	}
	if got != server.URL {
		t.Errorf("DiscoverFeed() = %v, want %v", got, server.URL)
	}
}

func TestDiscoverFeedFromHTMLPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
<link rel="alternate" type="application/rss+xml" href="/index.xml">
</head></html>`))
	}))
	defer server.Close()

	got, err := DiscoverFeed(server.URL)
	if err != nil {
		t.Fatalf("DiscoverFeed() error = %v", err)
	}
	want := server.URL + "/index.xml"
	if got != want {
		t.Errorf("DiscoverFeed() = %v, want %v", got, want)
	}
}

func TestIsFeedContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/rss+xml", true},
		{"application/atom+xml", true},
		{"application/xml", true},
		{"text/xml", true},
		{"application/rss+xml; charset=utf-8", true},
		{"text/html", false},
		{"application/json", false},
	}

	for _, tt := range tests {
		if got := isFeedContentType(tt.contentType); got != tt.want {
			t.Errorf("isFeedContentType(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}
