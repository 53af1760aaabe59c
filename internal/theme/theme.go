// Package theme holds the colour palette used to style the product table.
package theme

// Theme is the subset of a dashboard theme the panel consumes.
type Theme struct {
	Name   string `json:"name"`
	IsDark bool   `json:"isDark"`
	Colors Colors `json:"colors"`
}

// Colors groups the palette.
type Colors struct {
	Background Background `json:"background"`
	Text       Text       `json:"text"`
	Border     string     `json:"border"`
	Success    string     `json:"success"`
	Warning    string     `json:"warning"`
	Error      string     `json:"error"`
}

// Background colours for the page, panels and secondary surfaces.
type Background struct {
	Canvas    string `json:"canvas"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// Text colours.
type Text struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// Dark returns the default dark palette.
func Dark() Theme {
	return Theme{
		Name:   "dark",
		IsDark: true,
		Colors: Colors{
			Background: Background{
				Canvas:    "#111217",
				Primary:   "#181b1f",
				Secondary: "#22252b",
			},
			Text: Text{
				Primary:   "#ccccdc",
				Secondary: "#9fa7b3",
			},
			Border:  "#2c3235",
			Success: "#73BF69",
			Warning: "#FADE2A",
			Error:   "#F2495C",
		},
	}
}

// Modify returns a copy of t with the product panel's background overrides.
// The argument is left untouched.
func Modify(t Theme) Theme {
	t.Colors.Background.Secondary = "#5465ff"
	t.Colors.Background.Canvas = "#CCCCCC"
	t.Colors.Background.Primary = "#CCC"
	return t
}
