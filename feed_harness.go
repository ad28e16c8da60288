package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var loremWords = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing", "elit",
	"sed", "do", "eiusmod", "tempor", "incididunt", "ut", "labore", "et", "dolore",
	"magna", "aliqua", "enim", "ad", "minim", "veniam", "quis", "nostrud",
	"exercitation", "ullamco", "laboris", "nisi", "aliquip", "ex", "ea", "commodo",
	"consequat", "duis", "aute", "irure", "in", "reprehenderit", "voluptate",
	"velit", "esse", "cillum", "fugiat", "nulla", "pariatur", "excepteur", "sint",
	"occaecat", "cupidatat", "non", "proident", "sunt", "culpa", "qui", "officia",
	"deserunt", "mollit", "anim", "id", "est", "laborum",
}

var loremTitles = []string{
	"Lorem Ipsum Technology News", "Dolor Sit Tech Blog", "Consectetur Programming Tips",
	"Adipiscing Development Updates", "Sed Do Software Review", "Eiusmod Code Chronicles",
	"Tempor Tech Times", "Incididunt Innovation Hub", "Labore Dev Digest",
}

func generateLoremText(wordCount int) string {
	if wordCount <= 0 {
		wordCount = 10 + rand.Intn(20)
	}

	words := make([]string, wordCount)
	for i := 0; i < wordCount; i++ {
		words[i] = loremWords[rand.Intn(len(loremWords))]
	}

	text := strings.Join(words, " ")
	if len(text) > 0 {
		text = strings.ToUpper(string(text[0])) + text[1:]
	}

	return text + "."
}

func generateDummyFeed(title string, articleCount int) string {
	if title == "" {
		title = loremTitles[rand.Intn(len(loremTitles))]
	}

	if articleCount <= 0 {
		articleCount = 1 + rand.Intn(100)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>%s</title>
<description>%s</description>
<link>http://example.com</link>
<language>en-us</language>
<lastBuildDate>%s</lastBuildDate>
`, title, generateLoremText(15), time.Now().Format(time.RFC1123))

	for i := 0; i < articleCount; i++ {
		articleTitle := strings.TrimSuffix(generateLoremText(3+rand.Intn(7)), ".")
		description := generateLoremText(20 + rand.Intn(30))
		content := generateLoremText(50 + rand.Intn(100))
		publishDate := time.Now().AddDate(0, 0, -rand.Intn(30))
		guid := fmt.Sprintf("http://example.com/article/%d", i+1)

		fmt.Fprintf(&b, `
<item>
<title>%s</title>
<description>%s</description>
<content:encoded><![CDATA[%s]]></content:encoded>
<link>%s</link>
<guid>%s</guid>
<pubDate>%s</pubDate>
</item>`, articleTitle, description, content, guid, guid, publishDate.Format(time.RFC1123))
	}

	b.WriteString("\n</channel>\n</rss>")

	return b.String()
}

// feedHandler serves generated RSS. Query parameters control the response:
// title, articles, delay (seconds), status.
func feedHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	status := 200
	if statusParam := query.Get("status"); statusParam != "" {
		if parsed, err := strconv.Atoi(statusParam); err == nil {
			status = parsed
		}
	}

	var delay time.Duration
	if delayParam := query.Get("delay"); delayParam != "" {
		if seconds, err := strconv.Atoi(delayParam); err == nil && seconds >= 0 {
			delay = time.Duration(seconds) * time.Second
		}
	}

	title := query.Get("title")

	articleCount := 0
	if articlesParam := query.Get("articles"); articlesParam != "" {
		if parsed, err := strconv.Atoi(articlesParam); err == nil && parsed > 0 {
			articleCount = parsed
		}
	}

	ifNoneMatch := r.Header.Get("If-None-Match")

	requestType := "unconditional"
	if ifNoneMatch != "" || r.Header.Get("If-Modified-Since") != "" {
		requestType = "conditional"
	}
	fmt.Printf("request: %s %s (user-agent: %s)\n", requestType, r.URL.String(), r.Header.Get("User-Agent"))

	if delay > 0 {
		time.Sleep(delay)
	}

	// ETag changes every second so a quick second refresh hits the 304 path
	now := time.Now()
	etag := fmt.Sprintf(`"etag-%d"`, now.Unix())
	lastModified := now.UTC().Format(http.TimeFormat)

	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", lastModified)

	if ifNoneMatch != "" && ifNoneMatch == etag {
		fmt.Println("response: 304 Not Modified")
		w.WriteHeader(http.StatusNotModified)
		return
	}

	feedContent := generateDummyFeed(title, articleCount)

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(status)

	fmt.Printf("response: %d (%d bytes)\n", status, len(feedContent))

	if status >= 200 && status < 300 {
		if _, err := w.Write([]byte(feedContent)); err != nil {
			fmt.Printf("error writing feed content: %v\n", err)
		}
	} else {
		fmt.Fprintf(w, "HTTP %d Error", status)
	}
}

func runFeedTestHarness() error {
	port := ":8080"

	http.HandleFunc("/", feedHandler)
	http.HandleFunc("/feed.xml", feedHandler)
	http.HandleFunc("/rss.xml", feedHandler)

	fmt.Printf("Feed test harness listening on http://localhost%s\n", port)
	fmt.Println()
	fmt.Println("Example URLs:")
	fmt.Printf("  http://localhost%s/feed.xml\n", port)
	fmt.Printf("  http://localhost%s/feed.xml?title=Tech+News&articles=10\n", port)
	fmt.Printf("  http://localhost%s/feed.xml?delay=5&articles=3\n", port)
	fmt.Printf("  http://localhost%s/feed.xml?status=500\n", port)
	fmt.Println()
	fmt.Println("Query parameters: title, articles=N, delay=N (seconds), status=N")

	return http.ListenAndServe(port, nil)
}
