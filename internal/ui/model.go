package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/viddrobnic/simple-rss/internal/config"
	"github.com/viddrobnic/simple-rss/internal/database"
	"github.com/viddrobnic/simple-rss/internal/feeds"
	"github.com/viddrobnic/simple-rss/internal/tasks"
	"github.com/viddrobnic/simple-rss/internal/themes"
	"github.com/viddrobnic/simple-rss/internal/version"
)

const globalHelp string = "h: help | q: back/quit"

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

type ViewState int

const (
	FeedListView ViewState = iota
	ItemListView
	ArticleView
	LogView
	HelpView
)

type Model struct {
	feedManager          *feeds.Manager
	taskManager          tasks.Manager
	config               config.Config
	glamourRenderer      *glamour.TermRenderer
	state                ViewState
	previousState        ViewState
	feedList             []database.GetFeedStatsRow
	allFeeds             []database.GetFeedStatsRow
	totalFeedCount       int
	itemList             []database.Item
	currentItem          database.Item
	logList              []database.LogMessage
	links                []string
	cursor               int
	savedItemCursor      int
	savedFeedCursor      int
	savedLogCursor       int
	helpViewScroll       int
	articleScroll        int
	selectedFeed         int64
	width                int
	height               int
	err                  error
	refreshing           bool
	refreshStatus        string
	refreshingFeeds      map[int64]bool
	spinnerFrame         int
	spinnerRunning       bool
	pendingStartupReload bool
	urlsFilePath         string
	statusMessage        string
	statusMessageType    string
}

type SpinnerTickMsg struct{}

type TaskEventMsg struct {
	Event tasks.TaskEvent
}

type FeedListLoadedMsg struct {
	Feeds []database.GetFeedStatsRow
}

type ItemListLoadedMsg struct {
	Items []database.Item
}

type LogListLoadedMsg struct {
	Logs []database.LogMessage
}

type ErrorMsg struct {
	Err error
}

type AllItemsMarkedReadMsg struct {
	FeedID int64
}

type ItemReadStatusToggledMsg struct {
	ItemID int64
}

type EditorFinishedMsg struct {
	Err error
}

type URLsReloadedMsg struct {
	Count int
}

func NewModel(feedManager *feeds.Manager, taskManager tasks.Manager, cfg config.Config) Model {
	theme := themes.GetThemeByName(cfg.ThemeName)
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme.GlamourStyle),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		renderer, _ = glamour.NewTermRenderer()
	}

	return Model{
		feedManager:          feedManager,
		taskManager:          taskManager,
		config:               cfg,
		glamourRenderer:      renderer,
		state:                FeedListView,
		refreshingFeeds:      make(map[int64]bool),
		pendingStartupReload: cfg.ReloadOnStartup,
	}
}

func (m *Model) SetURLsFilePath(path string) {
	m.urlsFilePath = path
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadFeedList(m.feedManager),
		tea.WindowSize(),
		listenForTaskEvents(m.taskManager),
	)
}

// refreshAllFeeds enqueues a refresh task for every feed.
func (m *Model) refreshAllFeeds() {
	m.refreshing = true
	m.refreshStatus = "Refreshing all feeds..."
	for _, feed := range m.allFeeds {
		task := tasks.CreateFeedRefreshTask(feed.ID, feed.Url)
		if err := m.taskManager.AddTask(task); err != nil {
			continue
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case FeedListLoadedMsg:
		m.allFeeds = msg.Feeds
		m.totalFeedCount = len(msg.Feeds)

		if m.config.ShowReadFeeds {
			m.feedList = msg.Feeds
		} else {
			var filtered []database.GetFeedStatsRow
			for _, feed := range msg.Feeds {
				if feed.UnreadItems > 0 {
					filtered = append(filtered, feed)
				}
			}
			m.feedList = filtered
		}

		if m.config.UnreadOnTop {
			sort.SliceStable(m.feedList, func(i, j int) bool {
				iHasUnread := m.feedList[i].UnreadItems > 0
				jHasUnread := m.feedList[j].UnreadItems > 0
				if iHasUnread != jHasUnread {
					return iHasUnread
				}
				return false
			})
		}

		if m.state == FeedListView {
			m.cursor = m.savedFeedCursor
			if m.cursor >= len(m.feedList) {
				m.cursor = max(0, len(m.feedList)-1)
			}
			m.savedFeedCursor = m.cursor
		}

		if m.pendingStartupReload && len(m.allFeeds) > 0 {
			m.pendingStartupReload = false
			m.refreshAllFeeds()
		}

		return m, nil

	case ItemListLoadedMsg:
		m.itemList = msg.Items
		if m.state == ItemListView {
			m.cursor = m.savedItemCursor
			if m.cursor >= len(m.itemList) {
				m.cursor = max(0, len(m.itemList)-1)
			}
			m.savedItemCursor = m.cursor
		} else {
			m.cursor = 0
			m.savedItemCursor = 0
		}
		return m, nil

	case LogListLoadedMsg:
		m.logList = msg.Logs
		if m.state == LogView {
			m.cursor = m.savedLogCursor
			if m.cursor >= len(m.logList) {
				m.cursor = max(0, len(m.logList)-1)
			}
			m.savedLogCursor = m.cursor
		} else {
			m.cursor = 0
			m.savedLogCursor = 0
		}
		return m, nil

	case SpinnerTickMsg:
		if len(m.refreshingFeeds) > 0 {
			spinnerFrames := themes.GetSpinnerFrames(m.config.SpinnerType)
			m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
			return m, spinnerTick()
		}
		m.spinnerRunning = false
		return m, nil

	case TaskEventMsg:
		event := msg.Event

		switch event.Type {
		case tasks.TaskEventStarted:
			if event.TaskType == tasks.TaskTypeFeedRefresh && event.FeedID > 0 {
				m.refreshingFeeds[event.FeedID] = true
				if !m.spinnerRunning {
					m.spinnerRunning = true
					return m, tea.Batch(
						listenForTaskEvents(m.taskManager),
						spinnerTick(),
					)
				}
			}

		case tasks.TaskEventCompleted, tasks.TaskEventFailed:
			if event.TaskType == tasks.TaskTypeFeedRefresh && event.FeedID > 0 {
				delete(m.refreshingFeeds, event.FeedID)

				if event.Type == tasks.TaskEventFailed {
					m.statusMessage = "Refresh failed: " + event.URL
					m.statusMessageType = "error"
				}

				cmds := []tea.Cmd{
					listenForTaskEvents(m.taskManager),
					loadFeedList(m.feedManager),
				}
				if m.state == ItemListView && m.selectedFeed == event.FeedID {
					cmds = append(cmds, loadItemList(m.feedManager, event.FeedID))
				}

				if len(m.refreshingFeeds) == 0 {
					m.refreshing = false
					m.refreshStatus = ""
					m.spinnerRunning = false
					if m.statusMessageType != "error" {
						m.statusMessage = "Feeds refreshed"
						m.statusMessageType = "info"
					}
				}

				return m, tea.Batch(cmds...)
			}
		}

		return m, listenForTaskEvents(m.taskManager)

	case AllItemsMarkedReadMsg:
		cmds := []tea.Cmd{loadFeedList(m.feedManager)}
		if m.state == ItemListView && m.selectedFeed == msg.FeedID {
			cmds = append(cmds, loadItemList(m.feedManager, msg.FeedID))
		}
		return m, tea.Batch(cmds...)

	case ItemReadStatusToggledMsg:
		cmds := []tea.Cmd{loadFeedList(m.feedManager)}
		if m.state == ItemListView {
			cmds = append(cmds, loadItemList(m.feedManager, m.selectedFeed))
		}
		return m, tea.Batch(cmds...)

	case EditorFinishedMsg:
		if msg.Err != nil {
			m.statusMessage = "Editor failed: " + msg.Err.Error()
			m.statusMessageType = "error"
			return m, nil
		}
		return m, reloadURLsFromFile(m.feedManager, m.urlsFilePath)

	case URLsReloadedMsg:
		m.statusMessage = fmt.Sprintf("urls reloaded (%d feeds)", msg.Count)
		m.statusMessageType = "info"
		return m, loadFeedList(m.feedManager)

	case ErrorMsg:
		m.err = msg.Err
		m.refreshing = false
		m.refreshStatus = ""
		m.refreshingFeeds = make(map[int64]bool)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case FeedListView:
		return m.handleFeedListKeys(msg)
	case ItemListView:
		return m.handleItemListKeys(msg)
	case ArticleView:
		return m.handleArticleKeys(msg)
	case LogView:
		return m.handleLogListKeys(msg)
	case HelpView:
		return m.handleHelpViewKeys(msg)
	}
	return m, nil
}

func (m Model) handleFeedListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "q" && key != "esc" && key != "ctrl+c" && m.statusMessage != "" {
		m.statusMessage = ""
		m.statusMessageType = ""
	}

	switch key {
	case "q", "esc", "ctrl+c":
		return m, quitApp(m.taskManager)

	case "h", "?":
		m.previousState = m.state
		m.state = HelpView
		return m, nil

	case "j", "down":
		if len(m.feedList) > 0 && m.cursor < len(m.feedList)-1 {
			m.cursor++
			m.savedFeedCursor = m.cursor
		}

	case "k", "up":
		if len(m.feedList) > 0 && m.cursor > 0 {
			m.cursor--
			m.savedFeedCursor = m.cursor
		}

	case "ctrl+d":
		if len(m.feedList) > 0 {
			m.cursor = min(m.cursor+m.pageSize(), len(m.feedList)-1)
			m.savedFeedCursor = m.cursor
		}

	case "ctrl+u":
		if len(m.feedList) > 0 {
			m.cursor = max(m.cursor-m.pageSize(), 0)
			m.savedFeedCursor = m.cursor
		}

	case "enter":
		if len(m.feedList) > 0 && m.cursor < len(m.feedList) {
			m.selectedFeed = m.feedList[m.cursor].ID
			m.state = ItemListView
			m.cursor = 0
			m.savedItemCursor = 0
			return m, loadItemList(m.feedManager, m.selectedFeed)
		}

	case "R":
		if !m.refreshing {
			m.refreshAllFeeds()
		}

	case "r":
		if !m.refreshing && len(m.feedList) > 0 && m.cursor < len(m.feedList) {
			m.refreshing = true
			m.refreshStatus = "Refreshing feed..."

			feed := m.feedList[m.cursor]
			task := tasks.CreateFeedRefreshTask(feed.ID, feed.Url)
			if err := m.taskManager.AddTask(task); err != nil {
				m.refreshing = false
				m.refreshStatus = ""
			}
		}

	case "A":
		if len(m.feedList) > 0 && m.cursor < len(m.feedList) {
			feedID := m.feedList[m.cursor].ID
			return m, markAllItemsReadInFeed(m.feedManager, feedID)
		}

	case "e":
		if config.GetEditor() == "" {
			m.statusMessage = "Set EDITOR in your env to edit urls"
			m.statusMessageType = "error"
			return m, nil
		}
		return m, openURLsFileInEditor(m.urlsFilePath)

	case "l":
		m.state = LogView
		m.cursor = 0
		m.savedLogCursor = 0
		return m, loadLogList(m.feedManager)
	}

	return m, nil
}

func (m Model) handleItemListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "?":
		m.previousState = m.state
		m.state = HelpView
		return m, nil

	case "q", "esc", "ctrl+c":
		m.state = FeedListView
		m.cursor = m.savedFeedCursor
		return m, loadFeedList(m.feedManager)

	case "j", "down":
		if len(m.itemList) > 0 && m.cursor < len(m.itemList)-1 {
			m.cursor++
			m.savedItemCursor = m.cursor
		}

	case "k", "up":
		if len(m.itemList) > 0 && m.cursor > 0 {
			m.cursor--
			m.savedItemCursor = m.cursor
		}

	case "ctrl+d":
		if len(m.itemList) > 0 {
			m.cursor = min(m.cursor+m.pageSize(), len(m.itemList)-1)
			m.savedItemCursor = m.cursor
		}

	case "ctrl+u":
		if len(m.itemList) > 0 {
			m.cursor = max(m.cursor-m.pageSize(), 0)
			m.savedItemCursor = m.cursor
		}

	case "enter":
		if len(m.itemList) > 0 && m.cursor < len(m.itemList) {
			m.currentItem = m.itemList[m.cursor]
			content := m.currentItem.Content
			if content == "" {
				content = m.currentItem.Description
			}
			m.links = m.feedManager.ExtractLinks(content)
			m.state = ArticleView
			m.articleScroll = 0

			if !m.currentItem.Read {
				return m, markItemRead(m.feedManager, m.currentItem.ID)
			}
		}

	case " ", "N":
		if len(m.itemList) > 0 && m.cursor < len(m.itemList) {
			item := m.itemList[m.cursor]
			return m, toggleItemReadStatus(m.feedManager, item.ID, item.Read)
		}

	case "o":
		if len(m.itemList) > 0 && m.cursor < len(m.itemList) {
			item := m.itemList[m.cursor]
			if item.Link != "" {
				return m, openLink(item.Link)
			}
		}

	case "r":
		if !m.refreshing {
			m.refreshing = true
			m.refreshStatus = "Refreshing feed..."

			feed, err := m.currentFeedStats()
			if err == nil {
				task := tasks.CreateFeedRefreshTask(feed.ID, feed.Url)
				if addErr := m.taskManager.AddTask(task); addErr != nil {
					m.refreshing = false
					m.refreshStatus = ""
				}
			} else {
				m.refreshing = false
				m.refreshStatus = ""
			}
		}

	case "A":
		return m, markAllItemsReadInFeed(m.feedManager, m.selectedFeed)
	}

	return m, nil
}

// currentFeedStats finds the stats row for the feed whose items are shown.
func (m Model) currentFeedStats() (database.GetFeedStatsRow, error) {
	for _, feed := range m.allFeeds {
		if feed.ID == m.selectedFeed {
			return feed, nil
		}
	}
	return database.GetFeedStatsRow{}, fmt.Errorf("feed %d not loaded", m.selectedFeed)
}

func (m Model) handleArticleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "?":
		m.previousState = m.state
		m.state = HelpView
		return m, nil

	case "q", "esc", "ctrl+c":
		m.state = ItemListView
		m.cursor = m.savedItemCursor
		m.articleScroll = 0
		return m, loadItemList(m.feedManager, m.selectedFeed)

	case "j", "down":
		if m.articleScroll < m.articleMaxScroll() {
			m.articleScroll++
		}

	case "k", "up":
		if m.articleScroll > 0 {
			m.articleScroll--
		}

	case "ctrl+d":
		m.articleScroll = min(m.articleScroll+m.pageSize(), m.articleMaxScroll())

	case "ctrl+u":
		m.articleScroll = max(m.articleScroll-m.pageSize(), 0)

	case "o":
		if m.currentItem.Link != "" {
			return m, openLink(m.currentItem.Link)
		}

	case "n":
		if len(m.itemList) > 0 {
			return m.showArticleAt((m.savedItemCursor + 1) % len(m.itemList))
		}

	case "N":
		if len(m.itemList) > 0 {
			prev := m.savedItemCursor - 1
			if prev < 0 {
				prev = len(m.itemList) - 1
			}
			return m.showArticleAt(prev)
		}

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		linkNum := int(msg.String()[0] - '1')
		if linkNum < len(m.links) {
			return m, openLink(m.links[linkNum])
		}
	}

	return m, nil
}

// showArticleAt switches the article view to the item at the given index.
func (m Model) showArticleAt(index int) (tea.Model, tea.Cmd) {
	if index < 0 || index >= len(m.itemList) {
		return m, nil
	}

	m.savedItemCursor = index
	m.cursor = index
	m.currentItem = m.itemList[index]
	content := m.currentItem.Content
	if content == "" {
		content = m.currentItem.Description
	}
	m.links = m.feedManager.ExtractLinks(content)
	m.articleScroll = 0

	if !m.currentItem.Read {
		return m, markItemRead(m.feedManager, m.currentItem.ID)
	}
	return m, nil
}

func (m Model) handleLogListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "?":
		m.previousState = m.state
		m.state = HelpView
		return m, nil

	case "q", "esc", "ctrl+c":
		m.state = FeedListView
		m.cursor = m.savedFeedCursor
		return m, loadFeedList(m.feedManager)

	case "j", "down":
		if len(m.logList) > 0 && m.cursor < len(m.logList)-1 {
			m.cursor++
			m.savedLogCursor = m.cursor
		}

	case "k", "up":
		if len(m.logList) > 0 && m.cursor > 0 {
			m.cursor--
			m.savedLogCursor = m.cursor
		}

	case "ctrl+d":
		if len(m.logList) > 0 {
			m.cursor = min(m.cursor+m.pageSize(), len(m.logList)-1)
			m.savedLogCursor = m.cursor
		}

	case "ctrl+u":
		if len(m.logList) > 0 {
			m.cursor = max(m.cursor-m.pageSize(), 0)
			m.savedLogCursor = m.cursor
		}

	case "A":
		return m, clearAllLogMessages(m.feedManager)
	}

	return m, nil
}

func (m Model) handleHelpViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "h", "?", "ctrl+c":
		m.state = m.previousState
		m.helpViewScroll = 0
		return m, nil

	case "j", "down":
		m.helpViewScroll++

	case "k", "up":
		if m.helpViewScroll > 0 {
			m.helpViewScroll--
		}

	case "ctrl+d":
		m.helpViewScroll += m.pageSize()

	case "ctrl+u":
		m.helpViewScroll = max(m.helpViewScroll-m.pageSize(), 0)
	}

	return m, nil
}

func (m Model) pageSize() int {
	pageSize := m.height / 2
	if pageSize < 1 {
		pageSize = 5
	}
	return pageSize
}

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit", m.err)
	}

	switch m.state {
	case FeedListView:
		return m.renderFeedList()
	case ItemListView:
		return m.renderItemList()
	case ArticleView:
		return m.renderArticle()
	case LogView:
		return m.renderLogList()
	case HelpView:
		return m.renderHelpView()
	}

	return "Loading..."
}

func (m Model) theme() *themes.Theme {
	return themes.GetThemeByName(m.config.ThemeName)
}

func (m Model) getTitleStyle() lipgloss.Style {
	theme := m.theme()
	return lipgloss.NewStyle().
		Bold(true).
		Background(lipgloss.Color(theme.TitleColor)).
		Foreground(lipgloss.Color(theme.TitleColorFg)).
		Width(m.width)
}

// highlightStyle returns the configured highlight style, falling back to
// the theme default.
func (m Model) highlightStyle() string {
	if m.config.HighlightStyle != "" {
		return m.config.HighlightStyle
	}
	return m.theme().HighlightStyle
}

func (m Model) getSelectedStyle() lipgloss.Style {
	theme := m.theme()

	switch m.highlightStyle() {
	case "underline", "prefix-underline":
		return lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color(theme.SelectedItemColor))
	case "prefix":
		return lipgloss.NewStyle().Foreground(lipgloss.Color(theme.SelectedItemColor))
	default:
		return lipgloss.NewStyle().Background(lipgloss.Color(theme.SelectedItemColor)).Foreground(lipgloss.Color("229"))
	}
}

// applyHighlight applies the appropriate highlight style to a line
func (m Model) applyHighlight(line string, isSelected bool) string {
	style := m.highlightStyle()
	if style == "prefix" || style == "prefix-underline" {
		if isSelected {
			line = "> " + line
		} else {
			line = "  " + line
		}
	}

	if isSelected {
		return m.getSelectedStyle().Render(line)
	}

	return line
}

func (m Model) getHelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme().ReadItemColor))
}

func (m Model) getUnreadStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
}

func (m Model) getErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme().ErrorColor))
}

// viewport returns the start and end index of the visible slice, keeping
// the cursor centered when the list overflows.
func (m Model) viewport(listLen, availableHeight int) (int, int) {
	start := 0
	end := listLen

	if listLen > availableHeight {
		halfHeight := availableHeight / 2
		start = max(0, m.cursor-halfHeight)
		end = min(listLen, start+availableHeight)

		if end-start < availableHeight {
			start = max(0, end-availableHeight)
		}
	}

	return start, end
}

func (m Model) statusBarFor(state ViewState) string {
	viewKeys := GetViewKeys(state)
	viewHelp := FormatStatusBar(viewKeys.StatusBar)
	if viewHelp != "" {
		return globalHelp + " | " + viewHelp
	}
	return globalHelp
}

// refreshStatusLine appends the queue depth to the refresh status when
// more than one task is waiting.
func (m Model) refreshStatusLine() string {
	status := m.refreshStatus
	if n := m.taskManager.PendingCount(); n > 1 {
		status = fmt.Sprintf("%s (%d pending)", status, n)
	}
	return status
}

func (m Model) renderFeedList() string {
	var b strings.Builder
	b.WriteString(m.getTitleStyle().Render("simple-rss " + version.GetVersion()))

	if m.refreshing {
		b.WriteString(" - ")
		b.WriteString(m.getHelpStyle().Render(m.refreshStatusLine()))
	}

	b.WriteString("\n\n")

	statusBar := m.getHelpStyle().Render(m.statusBarFor(FeedListView))

	if len(m.feedList) == 0 {
		var content string
		var contentLines int
		if m.totalFeedCount == 0 {
			urlPath := m.urlsFilePath
			if urlPath == "" {
				urlPath = "~/.config/simple-rss"
			}
			content = "No feeds configured.\n" +
				"\n" +
				"Add feed URLs (one per line) to:\n" +
				"  " + urlPath + "\n" +
				"\n" +
				"Then press 'R' to fetch them, or see shortcuts with 'h'."
			contentLines = 6
		}

		headerLines := 2
		bottomLines := 2
		padding := m.height - headerLines - contentLines - bottomLines
		if padding < 0 {
			padding = 0
		}
		if content != "" {
			b.WriteString(content)
			b.WriteString("\n")
		}
		b.WriteString(strings.Repeat("\n", padding))
		b.WriteString(statusBar)
		b.WriteString("\n")
		if m.statusMessage != "" {
			b.WriteString(m.renderStatusMessage())
		}
		return b.String()
	}

	availableHeight := m.height - 5
	if availableHeight < 3 {
		availableHeight = 3
	}

	start, end := m.viewport(len(m.feedList), availableHeight)

	feedLines := 0
	for i := start; i < end; i++ {
		feed := m.feedList[i]

		// Error marker takes priority unless the feed is mid-refresh
		var marker string
		if feed.LastError.Valid && feed.LastError.String != "" && !m.refreshingFeeds[feed.ID] {
			marker = "! "
		} else if feed.UnreadItems > 0 {
			marker = "N "
		} else {
			marker = "  "
		}

		var spinner string
		if m.refreshingFeeds[feed.ID] {
			spinnerFrames := themes.GetSpinnerFrames(m.config.SpinnerType)
			spinner = spinnerFrames[m.spinnerFrame%len(spinnerFrames)] + " "
		} else {
			spinner = "  "
		}

		countStr := fmt.Sprintf("(%d/%d)", feed.UnreadItems, feed.TotalItems)
		paddedCount := fmt.Sprintf("%9s", countStr)

		line := marker + spinner + paddedCount + " " + feed.Title

		if i == m.cursor {
			line = m.applyHighlight(line, true)
		} else {
			if feed.LastError.Valid && feed.LastError.String != "" && !m.refreshingFeeds[feed.ID] {
				line = m.getErrorStyle().Render(line)
			} else if feed.UnreadItems > 0 {
				line = m.getUnreadStyle().Render(line)
			}
			line = m.applyHighlight(line, false)
		}

		b.WriteString(line)
		b.WriteString("\n")
		feedLines++
	}

	headerLines := 2
	statusBarLines := 2
	padding := m.height - headerLines - feedLines - statusBarLines
	if padding < 0 {
		padding = 0
	}
	b.WriteString(strings.Repeat("\n", padding))

	if len(m.feedList) > availableHeight {
		scrollInfo := fmt.Sprintf("(%d-%d of %d)  ", start+1, end, len(m.feedList))
		b.WriteString(m.getHelpStyle().Render(scrollInfo))
	}

	b.WriteString(statusBar)
	b.WriteString("\n")
	if m.statusMessage != "" {
		b.WriteString(m.renderStatusMessage())
	}

	return b.String()
}

func (m Model) renderStatusMessage() string {
	if m.statusMessageType == "error" {
		return m.getErrorStyle().Render(m.statusMessage)
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme().SelectedItemColor))
	return style.Render(m.statusMessage)
}

func (m Model) renderItemList() string {
	var b strings.Builder

	title := "simple-rss"
	if feed, err := m.currentFeedStats(); err == nil {
		title = "simple-rss - " + feed.Title
	}
	b.WriteString(m.getTitleStyle().Render(title))

	if m.refreshing {
		b.WriteString(" - ")
		b.WriteString(m.getHelpStyle().Render(m.refreshStatusLine()))
	}

	b.WriteString("\n\n")

	statusBar := m.getHelpStyle().Render(m.statusBarFor(ItemListView))

	if len(m.itemList) == 0 {
		content := "No items found."
		contentLines := strings.Count(b.String()+content, "\n") + 2
		padding := m.height - contentLines - 1
		if padding < 0 {
			padding = 0
		}
		b.WriteString(content)
		b.WriteString(strings.Repeat("\n", padding))
		b.WriteString(statusBar)
		return b.String()
	}

	availableHeight := m.height - 4
	if availableHeight < 3 {
		availableHeight = 3
	}

	start, end := m.viewport(len(m.itemList), availableHeight)

	itemLines := 0
	for i := start; i < end; i++ {
		item := m.itemList[i]

		datePrefix := "     "
		if item.Published.Valid {
			datePrefix = item.Published.Time.Format("01-02")
		}

		readPrefix := "  "
		if !item.Read {
			readPrefix = "N "
		}

		line := datePrefix + " " + readPrefix + item.Title

		if i == m.cursor {
			line = m.applyHighlight(line, true)
		} else {
			if !item.Read {
				line = m.getUnreadStyle().Render(line)
			}
			line = m.applyHighlight(line, false)
		}

		b.WriteString(line)
		b.WriteString("\n")
		itemLines++
	}

	headerLines := 2
	padding := m.height - headerLines - itemLines - 1
	if padding < 0 {
		padding = 0
	}
	b.WriteString(strings.Repeat("\n", padding))

	if len(m.itemList) > availableHeight {
		scrollInfo := fmt.Sprintf("(%d-%d of %d)", start+1, end, len(m.itemList))
		b.WriteString(m.getHelpStyle().Render(scrollInfo))
		b.WriteString("  ")
	}

	b.WriteString(statusBar)

	return b.String()
}

func (m *Model) getArticleContentLines() []string {
	var contentBuilder strings.Builder

	content := m.currentItem.Content
	if content == "" {
		content = m.currentItem.Description
	}

	// Markers go in before conversion so they survive the markdown pass
	content, _ = m.feedManager.AddLinkMarkersToHTML(content)
	content = m.feedManager.ConvertHTMLToMarkdown(content)

	if m.glamourRenderer != nil {
		rendered, err := m.glamourRenderer.Render(content)
		if err == nil {
			content = rendered
		}
	}

	contentBuilder.WriteString(content)
	contentBuilder.WriteString("\n\n")

	if len(m.links) > 0 {
		contentBuilder.WriteString(m.getHelpStyle().Render("Links:"))
		contentBuilder.WriteString("\n")
		for i, link := range m.links {
			contentBuilder.WriteString(fmt.Sprintf("[%d] %s\n", i+1, link))
		}
	}

	return strings.Split(contentBuilder.String(), "\n")
}

func (m Model) articleMaxScroll() int {
	allLines := m.getArticleContentLines()
	availableHeight := m.height - 3
	if availableHeight < 1 {
		availableHeight = 1
	}
	maxScroll := len(allLines) - availableHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	return maxScroll
}

func (m Model) renderArticle() string {
	allLines := m.getArticleContentLines()

	availableHeight := m.height - 3
	if availableHeight < 1 {
		availableHeight = 1
	}

	start := m.articleScroll
	if start >= len(allLines) {
		start = len(allLines) - 1
	}
	if start < 0 {
		start = 0
	}

	end := start + availableHeight
	if end > len(allLines) {
		end = len(allLines)
	}

	visibleLines := allLines[start:end]

	var b strings.Builder
	b.WriteString(m.getTitleStyle().Render(m.currentItem.Title))
	b.WriteString("\n\n")

	for _, line := range visibleLines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	usedLines := len(visibleLines) + 2
	padding := m.height - usedLines - 1
	if padding < 0 {
		padding = 0
	}
	b.WriteString(strings.Repeat("\n", padding))

	statusBar := m.getHelpStyle().Render(m.statusBarFor(ArticleView))
	if len(allLines) > availableHeight {
		scrollInfo := fmt.Sprintf("(%d-%d of %d) ", start+1, end, len(allLines))
		b.WriteString(m.getHelpStyle().Render(scrollInfo))
	}
	b.WriteString(statusBar)

	return b.String()
}

func (m Model) renderLogList() string {
	var b strings.Builder
	b.WriteString(m.getTitleStyle().Render("simple-rss - Log Messages"))
	b.WriteString("\n\n")

	statusBar := m.getHelpStyle().Render(m.statusBarFor(LogView))

	if len(m.logList) == 0 {
		content := "No log messages found."
		contentLines := strings.Count(b.String()+content, "\n") + 2
		padding := m.height - contentLines - 1
		if padding < 0 {
			padding = 0
		}
		b.WriteString(content)
		b.WriteString(strings.Repeat("\n", padding))
		b.WriteString(statusBar)
		return b.String()
	}

	availableHeight := m.height - 4
	if availableHeight < 3 {
		availableHeight = 3
	}

	start, end := m.viewport(len(m.logList), availableHeight)

	logLines := 0
	for i := start; i < end; i++ {
		log := m.logList[i]

		timestampStr := "                   "
		if log.Timestamp.Valid {
			timestampStr = log.Timestamp.Time.Format("2006-01-02 15:04:05")
		}

		line := timestampStr + "  " + log.Level + "  " + log.Message
		line = m.applyHighlight(line, i == m.cursor)

		b.WriteString(line)
		b.WriteString("\n")
		logLines++
	}

	headerLines := 2
	statusBarLines := 2
	padding := m.height - headerLines - logLines - statusBarLines
	if padding < 0 {
		padding = 0
	}
	b.WriteString(strings.Repeat("\n", padding))

	if len(m.logList) > availableHeight {
		scrollInfo := fmt.Sprintf("(%d-%d of %d)", start+1, end, len(m.logList))
		b.WriteString(m.getHelpStyle().Render(scrollInfo))
		b.WriteString("  ")
	}

	b.WriteString(statusBar)

	return b.String()
}

func (m Model) renderHelpView() string {
	var content strings.Builder

	content.WriteString("Global\n")
	for _, binding := range GlobalKeys {
		content.WriteString(fmt.Sprintf("  %-15s %s\n", binding.Key, binding.Description))
	}
	content.WriteString("\n")

	content.WriteString("Feed List View\n")
	content.WriteString(fmt.Sprintf("  %-15s %s\n", "r", "Refresh selected feed"))
	content.WriteString(fmt.Sprintf("  %-15s %s\n", "R", "Refresh all feeds"))
	content.WriteString(fmt.Sprintf("  %-15s %s\n", "A", "Mark all items in feed as read"))
	content.WriteString(fmt.Sprintf("  %-15s %s\n", "e", "Edit URLs file in $EDITOR"))
	content.WriteString(fmt.Sprintf("  %-15s %s\n", "l", "View logs"))
	content.WriteString("\n")

	content.WriteString("Item List View\n")
	content.WriteString(fmt.Sprintf("  %-15s %s\n", "space, N", "Toggle read status of item"))
	content.WriteString(fmt.Sprintf("  %-15s %s\n", "o", "Open item link in browser"))
	content.WriteString(fmt.Sprintf("  %-15s %s\n", "r", "Refresh feed"))
	content.WriteString(fmt.Sprintf("  %-15s %s\n", "A", "Mark all items as read"))
	content.WriteString("\n")

	content.WriteString("Article View\n")
	content.WriteString(fmt.Sprintf("  %-15s %s\n", "1-9", "Open numbered link in browser"))
	content.WriteString(fmt.Sprintf("  %-15s %s\n", "o", "Open article link in browser"))
	content.WriteString(fmt.Sprintf("  %-15s %s\n", "n", "Next article"))
	content.WriteString(fmt.Sprintf("  %-15s %s\n", "N", "Previous article"))
	content.WriteString("\n")

	content.WriteString("Log View\n")
	content.WriteString(fmt.Sprintf("  %-15s %s\n", "A", "Clear all log messages"))
	content.WriteString("\n")

	content.WriteString("Markers\n")
	content.WriteString("  N               Unread items/feed\n")
	content.WriteString("  !               Feed failed to fetch\n")

	allLines := strings.Split(content.String(), "\n")

	availableHeight := m.height - 3
	if availableHeight < 3 {
		availableHeight = 3
	}

	maxScroll := len(allLines) - availableHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	scroll := min(m.helpViewScroll, maxScroll)

	end := min(len(allLines), scroll+availableHeight)
	visibleLines := allLines[scroll:end]

	var b strings.Builder
	b.WriteString(m.getTitleStyle().Render("simple-rss - Help"))
	b.WriteString("\n\n")

	for _, line := range visibleLines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	padding := m.height - len(visibleLines) - 3
	if padding < 0 {
		padding = 0
	}
	b.WriteString(strings.Repeat("\n", padding))

	if len(allLines) > availableHeight {
		scrollInfo := fmt.Sprintf("(%d-%d of %d)  ", scroll+1, end, len(allLines))
		b.WriteString(m.getHelpStyle().Render(scrollInfo))
	}
	b.WriteString(m.getHelpStyle().Render("q: back"))

	return b.String()
}
