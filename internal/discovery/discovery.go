package discovery

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/viddrobnic/simple-rss/internal/version"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// DiscoverFeed resolves a URL to a feed URL. A URL that already serves a
// feed is returned as-is; an HTML page is searched for an alternate feed
// link in its head.
func DiscoverFeed(pageURL string) (string, error) {
	req, err := http.NewRequest("GET", pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("User-Agent", version.GetUserAgent())

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")

	if isFeedContentType(contentType) {
		return pageURL, nil
	}

	if isHTMLContentType(contentType) {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to read response body: %w", err)
		}
		return DiscoverFeedFromHTML(string(body), pageURL)
	}

	return "", fmt.Errorf("unsupported content type: %s", contentType)
}

// DiscoverFeedFromHTML finds the first RSS/Atom alternate link in an HTML
// document. Relative hrefs are resolved against baseURL.
func DiscoverFeedFromHTML(htmlContent, baseURL string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	feedURL := findFeedLink(doc)
	if feedURL == "" {
		return "", fmt.Errorf("no feed link found in HTML")
	}

	return resolveURL(baseURL, feedURL), nil
}

func findFeedLink(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "link" {
		var rel, href, typeAttr string
		for _, attr := range n.Attr {
			switch attr.Key {
			case "rel":
				rel = attr.Val
			case "href":
				href = attr.Val
			case "type":
				typeAttr = attr.Val
			}
		}

		if strings.EqualFold(rel, "alternate") && isFeedType(typeAttr) && href != "" {
			return href
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findFeedLink(c); result != "" {
			return result
		}
	}

	return ""
}

func isFeedContentType(contentType string) bool {
	contentType = strings.ToLower(strings.Split(contentType, ";")[0])
	return contentType == "application/rss+xml" ||
		contentType == "application/atom+xml" ||
		contentType == "application/xml" ||
		contentType == "text/xml"
}

func isHTMLContentType(contentType string) bool {
	contentType = strings.ToLower(strings.Split(contentType, ";")[0])
	return contentType == "text/html"
}

func isFeedType(typeAttr string) bool {
	typeAttr = strings.ToLower(typeAttr)
	return typeAttr == "application/rss+xml" || typeAttr == "application/atom+xml"
}

func resolveURL(baseURL, href string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
