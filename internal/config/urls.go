package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// GetEditor returns the editor to use from the EDITOR environment variable
func GetEditor() string {
	return os.Getenv("EDITOR")
}

// GetURLsFilePath returns the path of the feed list file: one URL per line,
// at $XDG_CONFIG_HOME/simple-rss (or ~/.config/simple-rss).
func GetURLsFilePath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "simple-rss"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "simple-rss"), nil
}

// Line is a single line of the URLs file. Comment and blank lines are kept
// verbatim in Raw so rewriting the file preserves them.
type Line struct {
	Raw     string
	URL     string
	IsEntry bool
}

func ReadURLsFile() ([]string, error) {
	urlsPath, err := GetURLsFilePath()
	if err != nil {
		return nil, err
	}
	return ReadURLsFileFromPath(urlsPath)
}

// ReadURLsFileFromPath returns the feed URLs in file order. A missing file
// yields an empty list.
func ReadURLsFileFromPath(urlsPath string) ([]string, error) {
	lines, err := ReadAllLinesFromPath(urlsPath)
	if err != nil {
		return nil, err
	}

	var urls []string
	for _, line := range lines {
		if line.IsEntry {
			urls = append(urls, line.URL)
		}
	}
	return urls, nil
}

// ReadAllLinesFromPath reads every line of the URLs file, keeping comments
// and blank lines.
func ReadAllLinesFromPath(urlsPath string) ([]Line, error) {
	file, err := os.Open(urlsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	var lines []Line
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		raw := scanner.Text()
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			lines = append(lines, Line{Raw: raw})
			continue
		}

		// First field is the URL, anything after it is ignored
		fields := strings.Fields(trimmed)
		lines = append(lines, Line{Raw: raw, URL: fields[0], IsEntry: true})
	}

	return lines, scanner.Err()
}

// WriteAllLines writes the URLs file back, preserving comment lines.
func WriteAllLines(urlsPath string, lines []Line) error {
	if err := os.MkdirAll(filepath.Dir(urlsPath), 0755); err != nil {
		return err
	}

	file, err := os.Create(urlsPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = file.Close()
	}()

	writer := bufio.NewWriter(file)
	for _, line := range lines {
		out := line.Raw
		if line.IsEntry && line.Raw == "" {
			out = line.URL
		}
		if _, err := writer.WriteString(out + "\n"); err != nil {
			return err
		}
	}

	return writer.Flush()
}

// AddURL appends a URL to the URLs file unless it is already present.
func AddURL(url string) error {
	urlsPath, err := GetURLsFilePath()
	if err != nil {
		return err
	}

	lines, err := ReadAllLinesFromPath(urlsPath)
	if err != nil {
		return err
	}

	for _, line := range lines {
		if line.IsEntry && line.URL == url {
			return nil
		}
	}

	lines = append(lines, Line{URL: url, IsEntry: true})
	return WriteAllLines(urlsPath, lines)
}

// RemoveURL removes a URL from the URLs file, keeping comments intact.
func RemoveURL(url string) error {
	urlsPath, err := GetURLsFilePath()
	if err != nil {
		return err
	}

	lines, err := ReadAllLinesFromPath(urlsPath)
	if err != nil {
		return err
	}

	var kept []Line
	for _, line := range lines {
		if line.IsEntry && line.URL == url {
			continue
		}
		kept = append(kept, line)
	}

	return WriteAllLines(urlsPath, kept)
}

// CreateSampleURLsFile creates the URLs file with a short comment header if
// it does not exist yet.
func CreateSampleURLsFile() error {
	urlsPath, err := GetURLsFilePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(urlsPath); err == nil {
		return nil
	}

	return WriteAllLines(urlsPath, []Line{
		{Raw: "# Add your RSS/Atom feeds to this file, one URL per line"},
	})
}
