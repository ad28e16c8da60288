package themes

type Theme struct {
	Name              string
	GlamourStyle      string
	TitleColor        string
	TitleColorFg      string
	SelectedItemColor string
	ReadItemColor     string
	ErrorColor        string
	HighlightStyle    string // "background", "underline", "prefix", "prefix-underline"
}

var AvailableThemes = []Theme{
	{
		Name:              "dark",
		GlamourStyle:      "dark",
		TitleColor:        "62",
		TitleColorFg:      "231",
		SelectedItemColor: "170",
		ReadItemColor:     "240",
		ErrorColor:        "196",
		HighlightStyle:    "prefix-underline",
	},
	{
		Name:              "light",
		GlamourStyle:      "light",
		TitleColor:        "12",
		TitleColorFg:      "0",
		SelectedItemColor: "75",
		ReadItemColor:     "248",
		ErrorColor:        "160",
		HighlightStyle:    "prefix-underline",
	},
	{
		Name:              "dracula",
		GlamourStyle:      "dracula",
		TitleColor:        "141",
		TitleColorFg:      "231",
		SelectedItemColor: "212",
		ReadItemColor:     "61",
		ErrorColor:        "203",
		HighlightStyle:    "prefix-underline",
	},
	{
		Name:              "ascii",
		GlamourStyle:      "ascii",
		TitleColor:        "7",
		TitleColorFg:      "0",
		SelectedItemColor: "7",
		ReadItemColor:     "8",
		ErrorColor:        "1",
		HighlightStyle:    "prefix",
	},
}

// GetThemeByName returns the named theme, falling back to the first theme
// when the name is unknown.
func GetThemeByName(name string) *Theme {
	for i := range AvailableThemes {
		if AvailableThemes[i].Name == name {
			return &AvailableThemes[i]
		}
	}
	return &AvailableThemes[0]
}

func GetThemeNames() []string {
	names := make([]string, len(AvailableThemes))
	for i, theme := range AvailableThemes {
		names[i] = theme.Name
	}
	return names
}

func GetSpinnerTypes() []string {
	return []string{
		"braille",
		"dots",
		"line",
		"circle",
	}
}

func GetSpinnerFrames(spinnerType string) []string {
	switch spinnerType {
	case "dots":
		return []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	case "line":
		return []string{"-", "\\", "|", "/"}
	case "circle":
		return []string{"◐", "◓", "◑", "◒"}
	default:
		return []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	}
}
