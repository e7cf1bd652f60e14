package hydration

// Theme is a cosmetic palette for the bottle view.
type Theme struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Pro   bool   `json:"pro"`
}

const (
	ThemeCyan   = "cyan"
	ThemeGold   = "gold"
	ThemePurple = "purple"
	ThemeRed    = "red"

	DefaultThemeID = ThemeCyan
	ProThemeID     = ThemeGold
)

var themes = []Theme{
	{ID: ThemeCyan, Name: "Cyan", Color: "#22d3ee"},
	{ID: ThemeGold, Name: "Gold", Color: "#facc15", Pro: true},
	{ID: ThemePurple, Name: "Purple", Color: "#a855f7", Pro: true},
	{ID: ThemeRed, Name: "Red", Color: "#ef4444", Pro: true},
}

func Themes() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

func LookupTheme(id string) (Theme, bool) {
	id = normalize(id)
	for _, t := range themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}
