package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/viddrobnic/simple-rss/internal/config"
	"github.com/viddrobnic/simple-rss/internal/database"
	"github.com/viddrobnic/simple-rss/internal/tasks"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()

	updated, _ := m.Update(msg)
	model, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, expected Model", updated)
	}
	return model
}

func testItems(n int) []database.Item {
	items := make([]database.Item, n)
	for i := range items {
		items[i] = database.Item{ID: int64(i + 1), Title: "item"}
	}
	return items
}

func testFeeds(n int) []database.GetFeedStatsRow {
	feeds := make([]database.GetFeedStatsRow, n)
	for i := range feeds {
		feeds[i] = database.GetFeedStatsRow{ID: int64(i + 1), Title: "feed"}
	}
	return feeds
}

func TestItemListNavigationClamped(t *testing.T) {
	m := Model{
		state:    ItemListView,
		itemList: testItems(2),
		config:   config.GetDefaultConfig(),
		height:   20,
	}

	m = press(t, m, keyMsg("j"))
	if m.cursor != 1 {
		t.Errorf("Expected cursor 1 after j, got %d", m.cursor)
	}

	// Already at the last item
	m = press(t, m, keyMsg("j"))
	if m.cursor != 1 {
		t.Errorf("Expected cursor clamped at 1, got %d", m.cursor)
	}

	m = press(t, m, keyMsg("k"))
	m = press(t, m, keyMsg("k"))
	if m.cursor != 0 {
		t.Errorf("Expected cursor clamped at 0, got %d", m.cursor)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	if m.cursor != 1 {
		t.Errorf("Expected ctrl+d clamped to last item, got %d", m.cursor)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	if m.cursor != 0 {
		t.Errorf("Expected ctrl+u clamped to first item, got %d", m.cursor)
	}
}

func TestFeedListNavigationClamped(t *testing.T) {
	m := Model{
		state:    FeedListView,
		feedList: testFeeds(3),
		config:   config.GetDefaultConfig(),
		height:   20,
	}

	for i := 0; i < 5; i++ {
		m = press(t, m, keyMsg("j"))
	}
	if m.cursor != 2 {
		t.Errorf("Expected cursor clamped at 2, got %d", m.cursor)
	}

	for i := 0; i < 5; i++ {
		m = press(t, m, keyMsg("k"))
	}
	if m.cursor != 0 {
		t.Errorf("Expected cursor clamped at 0, got %d", m.cursor)
	}
}

func TestEmptyFeedListNavigationStaysPut(t *testing.T) {
	m := Model{
		state:  FeedListView,
		config: config.GetDefaultConfig(),
		height: 20,
	}

	m = press(t, m, keyMsg("j"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	if m.cursor != 0 {
		t.Errorf("Expected cursor 0 on empty list, got %d", m.cursor)
	}
}

func TestBrowserCommandUsesExactLink(t *testing.T) {
	link := "https://example.com/post?id=42&ref=reader"

	tests := []struct {
		goos    string
		name    string
		lastArg string
	}{
		{"linux", "xdg-open", link},
		{"darwin", "open", link},
		{"windows", "rundll32", link},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := browserCommand(tt.goos, link)
			if name != tt.name {
				t.Errorf("Expected opener %q, got %q", tt.name, name)
			}
			if len(args) == 0 || args[len(args)-1] != tt.lastArg {
				t.Errorf("Expected link passed through unchanged, got %v", args)
			}
		})
	}

	if name, _ := browserCommand("plan9", link); name != "" {
		t.Errorf("Expected no opener for unsupported platform, got %q", name)
	}
}

func TestRefreshFailureSetsStatusMessage(t *testing.T) {
	m := Model{
		state:           FeedListView,
		config:          config.GetDefaultConfig(),
		refreshingFeeds: map[int64]bool{7: true},
		refreshing:      true,
	}

	m = press(t, m, TaskEventMsg{Event: tasks.TaskEvent{
		Type:     tasks.TaskEventFailed,
		TaskType: tasks.TaskTypeFeedRefresh,
		FeedID:   7,
		URL:      "https://example.com/feed",
	}})

	if m.statusMessage == "" {
		t.Fatal("Expected a status message after a failed refresh")
	}
	if m.statusMessageType != "error" {
		t.Errorf("Expected error status type, got %q", m.statusMessageType)
	}
	if m.refreshing {
		t.Error("Refresh should be finished after the last task event")
	}

	// Any key press in the feed list clears the message
	m = press(t, m, keyMsg("j"))
	if m.statusMessage != "" {
		t.Errorf("Expected status message cleared, still %q", m.statusMessage)
	}
}

func TestRefreshCompletionSetsStatusMessage(t *testing.T) {
	m := Model{
		state:           FeedListView,
		config:          config.GetDefaultConfig(),
		refreshingFeeds: map[int64]bool{3: true},
		refreshing:      true,
	}

	m = press(t, m, TaskEventMsg{Event: tasks.TaskEvent{
		Type:     tasks.TaskEventCompleted,
		TaskType: tasks.TaskTypeFeedRefresh,
		FeedID:   3,
		URL:      "https://example.com/feed",
	}})

	if m.statusMessage != "Feeds refreshed" {
		t.Errorf("Expected completion message, got %q", m.statusMessage)
	}
	if m.statusMessageType != "info" {
		t.Errorf("Expected info status type, got %q", m.statusMessageType)
	}
}

func TestEditURLsRequiresEditor(t *testing.T) {
	t.Setenv("EDITOR", "")

	m := Model{
		state:  FeedListView,
		config: config.GetDefaultConfig(),
	}

	m = press(t, m, keyMsg("e"))
	if m.statusMessage == "" {
		t.Fatal("Expected a status message when EDITOR is unset")
	}
	if m.statusMessageType != "error" {
		t.Errorf("Expected error status type, got %q", m.statusMessageType)
	}
}
