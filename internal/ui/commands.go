package ui

import (
	"os/exec"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/viddrobnic/simple-rss/internal/config"
	"github.com/viddrobnic/simple-rss/internal/database"
	"github.com/viddrobnic/simple-rss/internal/feeds"
	"github.com/viddrobnic/simple-rss/internal/logging"
	"github.com/viddrobnic/simple-rss/internal/tasks"
)

func loadFeedList(feedManager *feeds.Manager) tea.Cmd {
	return func() tea.Msg {
		stats, err := feedManager.GetFeedStats()
		if err != nil {
			logging.Error("loadFeedList failed", "error", err)
			return ErrorMsg{Err: err}
		}
		return FeedListLoadedMsg{Feeds: stats}
	}
}

func loadItemList(feedManager *feeds.Manager, feedID int64) tea.Cmd {
	return func() tea.Msg {
		items, err := feedManager.GetItems(feedID)
		if err != nil {
			logging.Error("loadItemList failed", "feedID", feedID, "error", err)
			return ErrorMsg{Err: err}
		}
		return ItemListLoadedMsg{Items: items}
	}
}

func loadLogList(feedManager *feeds.Manager) tea.Cmd {
	return func() tea.Msg {
		logs, err := feedManager.GetLogMessages(1000)
		if err != nil {
			logging.Error("loadLogList failed", "error", err)
			return ErrorMsg{Err: err}
		}
		return LogListLoadedMsg{Logs: logs}
	}
}

func clearAllLogMessages(feedManager *feeds.Manager) tea.Cmd {
	return func() tea.Msg {
		if err := feedManager.DeleteAllLogMessages(); err != nil {
			logging.Error("clearAllLogMessages failed", "error", err)
			return ErrorMsg{Err: err}
		}
		return LogListLoadedMsg{Logs: []database.LogMessage{}}
	}
}

func markItemRead(feedManager *feeds.Manager, itemID int64) tea.Cmd {
	return func() tea.Msg {
		if err := feedManager.MarkItemRead(itemID); err != nil {
			logging.Error("Error marking item as read", "itemID", itemID, "error", err)
		}
		return ItemReadStatusToggledMsg{ItemID: itemID}
	}
}

func toggleItemReadStatus(feedManager *feeds.Manager, itemID int64, currentlyRead bool) tea.Cmd {
	return func() tea.Msg {
		if err := feedManager.ToggleItemRead(itemID, currentlyRead); err != nil {
			logging.Error("Error toggling item read status", "itemID", itemID, "error", err)
			return ErrorMsg{Err: err}
		}
		return ItemReadStatusToggledMsg{ItemID: itemID}
	}
}

func markAllItemsReadInFeed(feedManager *feeds.Manager, feedID int64) tea.Cmd {
	return func() tea.Msg {
		if err := feedManager.MarkAllItemsReadInFeed(feedID); err != nil {
			logging.Error("Error marking all items as read", "feedID", feedID, "error", err)
			return ErrorMsg{Err: err}
		}
		return AllItemsMarkedReadMsg{FeedID: feedID}
	}
}

// browserCommand returns the platform opener and its arguments. The name
// is empty for unsupported platforms.
func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "linux":
		return "xdg-open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	}
	return "", nil
}

func openLink(url string) tea.Cmd {
	return func() tea.Msg {
		name, args := browserCommand(runtime.GOOS, url)
		if name == "" {
			logging.Warn("Unsupported platform for opening links", "platform", runtime.GOOS)
			return nil
		}

		if err := exec.Command(name, args...).Start(); err != nil {
			logging.Error("Error opening link", "url", url, "error", err)
		}

		return nil
	}
}

func openURLsFileInEditor(path string) tea.Cmd {
	cmd := exec.Command(config.GetEditor(), path)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return EditorFinishedMsg{Err: err}
	})
}

// reloadURLsFromFile re-reads the URLs file and reconciles the database
// with it, then reports how many entries it found.
func reloadURLsFromFile(feedManager *feeds.Manager, path string) tea.Cmd {
	return func() tea.Msg {
		var urls []string
		var err error
		if path != "" {
			urls, err = config.ReadURLsFileFromPath(path)
		} else {
			urls, err = config.ReadURLsFile()
		}
		if err != nil {
			logging.Error("reloadURLsFromFile failed", "error", err)
			return ErrorMsg{Err: err}
		}

		if err := feedManager.SyncWithURLs(urls); err != nil {
			logging.Error("Failed to sync feeds with URLs file", "error", err)
			return ErrorMsg{Err: err}
		}

		return URLsReloadedMsg{Count: len(urls)}
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}

func listenForTaskEvents(taskManager tasks.Manager) tea.Cmd {
	return func() tea.Msg {
		events := taskManager.Subscribe()
		event, ok := <-events
		if !ok {
			return nil
		}
		return TaskEventMsg{Event: event}
	}
}

func quitApp(taskManager tasks.Manager) tea.Cmd {
	return func() tea.Msg {
		if err := taskManager.Stop(); err != nil {
			logging.Error("Failed to stop task manager on quit", "error", err)
		}
		return tea.Quit()
	}
}
