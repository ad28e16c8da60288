package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadURLsFileFromPath(t *testing.T) {
	testDir := t.TempDir()
	urlsPath := filepath.Join(testDir, "simple-rss")

	content := `# feeds
https://example.com/feed1.xml

https://example.com/feed2.xml
# a comment between entries
https://example.com/feed3.xml
`
	if err := os.WriteFile(urlsPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	urls, err := ReadURLsFileFromPath(urlsPath)
	if err != nil {
		t.Fatalf("Failed to read URLs: %v", err)
	}

	expected := []string{
		"https://example.com/feed1.xml",
		"https://example.com/feed2.xml",
		"https://example.com/feed3.xml",
	}

	if len(urls) != len(expected) {
		t.Fatalf("Expected %d URLs, got %d", len(expected), len(urls))
	}
	for i, url := range expected {
		if urls[i] != url {
			t.Errorf("URL %d: expected %s, got %s", i, url, urls[i])
		}
	}
}

func TestReadURLsFileMissing(t *testing.T) {
	urls, err := ReadURLsFileFromPath(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Expected no error for missing file, got: %v", err)
	}
	if len(urls) != 0 {
		t.Errorf("Expected empty list for missing file, got %d entries", len(urls))
	}
}

func TestWritePreservesComments(t *testing.T) {
	testDir := t.TempDir()
	urlsPath := filepath.Join(testDir, "simple-rss")

	initialContent := `# This is a comment
https://example.com/feed1.xml

# Section for tech feeds
https://example.com/feed2.xml
`
	if err := os.WriteFile(urlsPath, []byte(initialContent), 0644); err != nil {
		t.Fatalf("Failed to write initial file: %v", err)
	}

	lines, err := ReadAllLinesFromPath(urlsPath)
	if err != nil {
		t.Fatalf("Failed to read lines: %v", err)
	}

	if len(lines) != 5 {
		t.Errorf("Expected 5 lines, got %d", len(lines))
	}
	if lines[0].IsEntry || lines[0].Raw != "# This is a comment" {
		t.Errorf("First line should be a comment, got: %+v", lines[0])
	}

	lines = append(lines, Line{URL: "https://example.com/feed3.xml", IsEntry: true})
	if err := WriteAllLines(urlsPath, lines); err != nil {
		t.Fatalf("Failed to write lines: %v", err)
	}

	content, err := os.ReadFile(urlsPath)
	if err != nil {
		t.Fatalf("Failed to read final file: %v", err)
	}

	expectedContent := initialContent + "https://example.com/feed3.xml\n"
	if string(content) != expectedContent {
		t.Errorf("Content mismatch.\nExpected:\n%s\n\nGot:\n%s", expectedContent, content)
	}
}

func TestRemoveURLPreservesComments(t *testing.T) {
	testDir := t.TempDir()
	urlsPath := filepath.Join(testDir, "simple-rss")
	t.Setenv("XDG_CONFIG_HOME", testDir)

	initialContent := `# This is a comment
https://example.com/feed1.xml
# Another comment
https://example.com/feed2.xml
https://example.com/feed3.xml
`
	if err := os.WriteFile(urlsPath, []byte(initialContent), 0644); err != nil {
		t.Fatalf("Failed to write initial file: %v", err)
	}

	if err := RemoveURL("https://example.com/feed2.xml"); err != nil {
		t.Fatalf("Failed to remove URL: %v", err)
	}

	content, err := os.ReadFile(urlsPath)
	if err != nil {
		t.Fatalf("Failed to read final file: %v", err)
	}

	expectedContent := `# This is a comment
https://example.com/feed1.xml
# Another comment
https://example.com/feed3.xml
`
	if string(content) != expectedContent {
		t.Errorf("Content mismatch after RemoveURL.\nExpected:\n%s\n\nGot:\n%s", expectedContent, content)
	}
}

func TestAddURLSkipsDuplicates(t *testing.T) {
	testDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", testDir)

	if err := AddURL("https://example.com/feed.xml"); err != nil {
		t.Fatalf("Failed to add URL: %v", err)
	}
	if err := AddURL("https://example.com/feed.xml"); err != nil {
		t.Fatalf("Failed on duplicate add: %v", err)
	}

	urls, err := ReadURLsFile()
	if err != nil {
		t.Fatalf("Failed to read URLs: %v", err)
	}
	if len(urls) != 1 {
		t.Errorf("Expected 1 URL after duplicate add, got %d", len(urls))
	}
}
