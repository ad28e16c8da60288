package ui

import "strings"

// KeyBinding is a single key with its description for the help view.
type KeyBinding struct {
	Key         string
	Description string
}

// ViewKeyBindings holds the bindings advertised by a view.
type ViewKeyBindings struct {
	StatusBar []KeyBinding
}

// Global key bindings that work in all views
var GlobalKeys = []KeyBinding{
	{"h, ?", "help"},
	{"q, esc", "quit / go back"},
	{"ctrl+c", "force quit"},
	{"j, down", "move down"},
	{"k, up", "move up"},
	{"enter", "select / open"},
	{"ctrl+d", "page down"},
	{"ctrl+u", "page up"},
}

var FeedListViewKeys = ViewKeyBindings{
	StatusBar: []KeyBinding{
		{"r/R", "reload"},
		{"e", "edit urls"},
	},
}

var ItemListViewKeys = ViewKeyBindings{
	StatusBar: []KeyBinding{
		{"space", "toggle read"},
		{"o", "open in browser"},
	},
}

var ArticleViewKeys = ViewKeyBindings{
	StatusBar: []KeyBinding{
		{"n/N", "next/prev"},
	},
}

var LogViewKeys = ViewKeyBindings{
	StatusBar: []KeyBinding{},
}

var HelpViewKeys = ViewKeyBindings{
	StatusBar: []KeyBinding{},
}

// GetViewKeys returns the key bindings for a given view state
func GetViewKeys(state ViewState) ViewKeyBindings {
	switch state {
	case FeedListView:
		return FeedListViewKeys
	case ItemListView:
		return ItemListViewKeys
	case ArticleView:
		return ArticleViewKeys
	case LogView:
		return LogViewKeys
	case HelpView:
		return HelpViewKeys
	default:
		return ViewKeyBindings{}
	}
}

// FormatStatusBar creates a formatted status bar string from key bindings
func FormatStatusBar(bindings []KeyBinding) string {
	if len(bindings) == 0 {
		return ""
	}

	parts := make([]string, len(bindings))
	for i, binding := range bindings {
		parts[i] = binding.Key + ": " + binding.Description
	}
	return strings.Join(parts, " | ")
}
