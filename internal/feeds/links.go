package feeds

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	mdLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	hrefPattern   = regexp.MustCompile(`<a[^>]+href=["']([^"']+)["']`)
	anchorPattern = regexp.MustCompile(`(?s)<a[^>]+href=["']([^"']+)["'][^>]*>(.*?)</a>`)
)

// ExtractLinks collects http(s) links from markdown, HTML anchors, and
// plain text, in order of first appearance, without duplicates.
func (m *Manager) ExtractLinks(content string) []string {
	var links []string
	seen := make(map[string]bool)

	add := func(link string) {
		if (strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://")) && !seen[link] {
			links = append(links, link)
			seen[link] = true
		}
	}

	for _, match := range mdLinkPattern.FindAllStringSubmatch(content, -1) {
		if len(match) > 2 {
			add(match[2])
		}
	}

	for _, match := range hrefPattern.FindAllStringSubmatch(content, -1) {
		if len(match) > 1 {
			add(match[1])
		}
	}

	// Plain URLs in text
	if strings.Contains(content, "http") {
		for _, word := range strings.Fields(content) {
			if strings.HasPrefix(word, "http://") || strings.HasPrefix(word, "https://") {
				add(strings.TrimRight(word, ".,!?;)"))
			}
		}
	}

	return links
}

// AddLinkMarkersToHTML inserts a numeric marker after each anchor so the
// link numbers survive the HTML to markdown conversion. Returns the marked
// HTML and the links in marker order.
func (m *Manager) AddLinkMarkersToHTML(html string) (string, []string) {
	var links []string
	seen := make(map[string]int)

	marked := anchorPattern.ReplaceAllStringFunc(html, func(anchor string) string {
		match := anchorPattern.FindStringSubmatch(anchor)
		if len(match) < 2 {
			return anchor
		}

		link := match[1]
		if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
			return anchor
		}

		num, ok := seen[link]
		if !ok {
			links = append(links, link)
			num = len(links)
			seen[link] = num
		}

		return anchor + fmt.Sprintf(" [%d]", num)
	})

	return marked, links
}
