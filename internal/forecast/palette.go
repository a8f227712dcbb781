package forecast

import "fmt"

// Palette is the page colour scheme for a weather condition.
type Palette struct {
	// BackgroundTop and BackgroundBottom form the page gradient
	BackgroundTop    string
	BackgroundBottom string
	// Accent is used for buttons and highlights
	Accent string
}

// DefaultPalette is the light sky theme used before any weather is loaded.
var DefaultPalette = Palette{
	BackgroundTop:    "#e0f2fe",
	BackgroundBottom: "#f1f5f9",
	Accent:           "#0ea5e9",
}

var palettes = map[Condition]Palette{
	ConditionClear:   DefaultPalette,
	ConditionCloudy:  {BackgroundTop: "#e2e8f0", BackgroundBottom: "#f8fafc", Accent: "#64748b"},
	ConditionFog:     {BackgroundTop: "#e5e7eb", BackgroundBottom: "#f3f4f6", Accent: "#6b7280"},
	ConditionDrizzle: {BackgroundTop: "#dbeafe", BackgroundBottom: "#f1f5f9", Accent: "#3b82f6"},
	ConditionRain:    {BackgroundTop: "#bfdbfe", BackgroundBottom: "#e2e8f0", Accent: "#2563eb"},
	ConditionSnow:    {BackgroundTop: "#f0f9ff", BackgroundBottom: "#ffffff", Accent: "#38bdf8"},
	ConditionStorm:   {BackgroundTop: "#cbd5e1", BackgroundBottom: "#e2e8f0", Accent: "#7c3aed"},
}

// GetPalette returns the palette for a condition, falling back to
// DefaultPalette.
func GetPalette(c Condition) Palette {
	if p, ok := palettes[c]; ok {
		return p
	}
	return DefaultPalette
}

// CSSVars renders the palette as CSS custom properties on :root.
func (p Palette) CSSVars() string {
	return fmt.Sprintf(":root { --bg-top: %s; --bg-bottom: %s; --accent: %s; }",
		p.BackgroundTop, p.BackgroundBottom, p.Accent)
}
