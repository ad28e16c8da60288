package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/viddrobnic/simple-rss/internal/config"
	"github.com/viddrobnic/simple-rss/internal/database"
	"github.com/viddrobnic/simple-rss/internal/discovery"
	"github.com/viddrobnic/simple-rss/internal/feeds"
	"github.com/viddrobnic/simple-rss/internal/logging"
	"github.com/viddrobnic/simple-rss/internal/tasks"
	"github.com/viddrobnic/simple-rss/internal/ui"
	"github.com/viddrobnic/simple-rss/internal/version"
)

//go:embed sql/schema.sql
var schemaSQL string

func setupLogging(queries *database.Queries, debug bool) {
	handler := logging.NewDatabaseHandler(queries, debug)
	logging.SetLogger(slog.New(handler))
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: simple-rss [options] [command]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  add <url>    Add a feed URL to the URLs file\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	var feedTest = flag.Bool("feedTest", false, "Run feed test harness server")
	var showVersion = flag.Bool("version", false, "Show version information")
	var debug = flag.Bool("debug", false, "Enable debug logging")
	var urlFile = flag.String("u", "", "Path to URL file (overrides default location)")
	flag.StringVar(urlFile, "urlFile", "", "Path to URL file (overrides default location)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetVersion())
		return
	}

	if *feedTest {
		if err := runFeedTestHarness(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "add":
			if len(args) < 2 {
				fmt.Fprintf(os.Stderr, "Error: 'add' command requires a URL argument\n")
				fmt.Fprintf(os.Stderr, "Usage: simple-rss add <url>\n")
				os.Exit(1)
			}
			if err := addURL(args[1]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", args[0])
			os.Exit(1)
		}
	}

	if err := run(*urlFile, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func addURL(urlArg string) error {
	fmt.Printf("Discovering feed URL from: %s\n", urlArg)
	feedURL, err := discovery.DiscoverFeed(urlArg)
	if err != nil {
		return fmt.Errorf("failed to discover feed: %w", err)
	}

	if feedURL != urlArg {
		fmt.Printf("Discovered feed URL: %s\n", feedURL)
	}

	if err := config.AddURL(feedURL); err != nil {
		return fmt.Errorf("failed to add URL to file: %w", err)
	}

	db, queries, err := database.InitDBWithSchema(schemaSQL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		cfg = config.GetDefaultConfig()
	}

	feedManager := feeds.NewManager(db, queries,
		time.Duration(cfg.FetchTimeout)*time.Second, cfg.FetchRetries)
	if err := feedManager.AddFeed(feedURL); err != nil {
		// The URL is already in the file; the next run fetches it.
		fmt.Printf("Feed saved, initial fetch failed: %v\n", err)
		return nil
	}

	fmt.Printf("Successfully added feed: %s\n", feedURL)
	return nil
}

func run(urlFile string, debug bool) error {
	db, queries, err := database.InitDBWithSchema(schemaSQL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config, using defaults: %v\n", err)
		cfg = config.GetDefaultConfig()
	}

	setupLogging(queries, debug)
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("Error closing database", "error", closeErr)
		}
	}()

	feedManager := feeds.NewManager(db, queries,
		time.Duration(cfg.FetchTimeout)*time.Second, cfg.FetchRetries)

	taskManager := tasks.NewManager(cfg.ReloadConcurrency)
	if err := taskManager.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start task manager: %w", err)
	}
	defer func() {
		if stopErr := taskManager.Stop(); stopErr != nil {
			logging.Debug("Task manager already stopped", "error", stopErr)
		}
	}()

	feedRefreshHandler := tasks.NewFeedRefreshHandler(feedManager)
	if err := taskManager.RegisterHandler(feedRefreshHandler); err != nil {
		return fmt.Errorf("failed to register feed refresh handler: %w", err)
	}

	if err := config.CreateSampleURLsFile(); err != nil {
		logging.Warn("Failed to create sample URLs file", "error", err)
	}

	urlsPath, err := config.GetURLsFilePath()
	if err != nil {
		logging.Warn("Failed to get URLs file path", "error", err)
		urlsPath = ""
	}

	var urls []string
	if urlFile != "" {
		urls, err = config.ReadURLsFileFromPath(urlFile)
		if err != nil {
			return fmt.Errorf("failed to read URLs file: %w", err)
		}
		urlsPath = urlFile
	} else {
		urls, err = config.ReadURLsFile()
		if err != nil {
			return fmt.Errorf("failed to read URLs file: %w", err)
		}
	}

	if err := feedManager.SyncWithURLs(urls); err != nil {
		logging.Warn("Failed to sync feeds with URLs file", "error", err)
	}

	model := ui.NewModel(feedManager, taskManager, cfg)
	model.SetURLsFilePath(urlsPath)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}
