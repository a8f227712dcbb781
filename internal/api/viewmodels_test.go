package api

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/lox/skypulse/internal/dashboard"
	"github.com/lox/skypulse/internal/models"
)

func ptr(v float64) *float64 { return &v }

func day(date string, code int, lo, hi float64) models.DailyEntry {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return models.DailyEntry{Date: d, WeatherCode: code, TempMin: lo, TempMax: hi}
}

func TestRoundJS(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{21.4, 21},
		{25.1, 25},
		{14.3, 14},
		{2.5, 3},
		{25.5, 26},
		{-2.5, -2},
		{-2.6, -3},
		{-0.5, 0},
		{0.49999999999999994, 0},
		{0, 0},
	}
	for _, tt := range tests {
		if got := RoundJS(tt.in); got != tt.want {
			t.Errorf("RoundJS(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatTemp(t *testing.T) {
	if got := FormatTemp(nil); got != "--°C" {
		t.Errorf("FormatTemp(nil) = %q", got)
	}
	if got := FormatTemp(ptr(21.4)); got != "21°C" {
		t.Errorf("FormatTemp(21.4) = %q", got)
	}
}

func TestParseFocus(t *testing.T) {
	tests := []struct {
		in   string
		want Focus
	}{
		{"", FocusDay},
		{"day", FocusDay},
		{"sun", FocusDay},
		{"night", FocusNight},
		{"Moon", FocusNight},
		{"sky", FocusSky},
		{"cloud", FocusSky},
		{" wind ", FocusWind},
		{"bogus", FocusDay},
	}
	for _, tt := range tests {
		if got := ParseFocus(tt.in); got != tt.want {
			t.Errorf("ParseFocus(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := Focus(42).String(); got != "day" {
		t.Errorf("out-of-range focus String() = %q, want day", got)
	}
}

func TestBuildFocusPanel(t *testing.T) {
	snap := &models.Snapshot{
		Current: models.CurrentConditions{
			WindSpeed:     12.6,
			WindDirection: 247.5,
			WeatherCode:   63,
		},
		TodayMax: ptr(25.1),
		TodayMin: ptr(14.3),
	}

	tests := []struct {
		focus     Focus
		title     string
		line1     string
		icon      string
		theme     string
		dark      bool
		animation string
	}{
		{FocusDay, "Day Temperature", "Today’s maximum temperature is around 25°C.", "☀️", "theme-day", false, "pulse"},
		{FocusNight, "Night Temperature", "Tonight’s minimum temperature may drop to around 14°C.", "🌙", "theme-night", true, "pulse"},
		{FocusSky, "Cloud & Rain", "Current sky condition: Moderate rain.", "🌧️", "theme-sky", false, "bounce"},
		{FocusWind, "Wind Details", "Wind speed is around 13 km/h.", "💨", "theme-wind", false, "pulse"},
	}

	for _, tt := range tests {
		t.Run(tt.focus.String(), func(t *testing.T) {
			p := BuildFocusPanel(tt.focus, snap)
			if p.Title != tt.title || p.Line1 != tt.line1 {
				t.Errorf("got %q / %q, want %q / %q", p.Title, p.Line1, tt.title, tt.line1)
			}
			if p.Icon != tt.icon || p.Theme != tt.theme || p.Dark != tt.dark || p.Animation != tt.animation {
				t.Errorf("got icon=%s theme=%s dark=%v anim=%s", p.Icon, p.Theme, p.Dark, p.Animation)
			}
			if p.Line2 == "" {
				t.Error("missing second line")
			}
		})
	}

	wind := BuildFocusPanel(FocusWind, snap)
	if want := "Wind direction is approximately 248°, showing where the wind is blowing from."; wind.Line2 != want {
		t.Errorf("wind line2 = %q, want %q", wind.Line2, want)
	}
}

func TestBuildFocusPanel_AbsentTemperatures(t *testing.T) {
	snap := &models.Snapshot{}
	if got := BuildFocusPanel(FocusDay, snap).Line1; got != "Day temperature data is not available." {
		t.Errorf("day line1 = %q", got)
	}
	if got := BuildFocusPanel(FocusNight, snap).Line1; got != "Night temperature data is not available." {
		t.Errorf("night line1 = %q", got)
	}
	if got := BuildFocusPanel(FocusSky, nil).Line1; got != "Current sky condition: Unknown." {
		t.Errorf("sky line1 without snapshot = %q", got)
	}
}

func TestBuildCard(t *testing.T) {
	observed := time.Date(2025, 10, 14, 9, 30, 0, 0, time.UTC)
	state := dashboard.AppState{
		LocationName: "Springfield, Sangamon, Illinois, United States",
		Snapshot: &models.Snapshot{
			Current:  models.CurrentConditions{Temperature: 21.4, WeatherCode: 2, ObservedAt: observed},
			TodayMax: ptr(25.1),
			TodayMin: nil,
		},
	}

	card := BuildCard(state, FocusNight)
	if card == nil {
		t.Fatal("BuildCard returned nil")
	}
	checks := map[string][2]string{
		"Header":      {card.Header, "Selected Location"},
		"Mode":        {card.Mode, "Manual search"},
		"Temperature": {card.Temperature, "21"},
		"Now":         {card.Now, "21°C"},
		"High":        {card.High, "25°C"},
		"Low":         {card.Low, "--°C"},
		"Date":        {card.Date, "Tue, 14 Oct"},
		"Updated":     {card.Updated, "09:30"},
		"Condition":   {card.Condition.Label, "Partly cloudy"},
		"Focus":       {card.Focus, "night"},
	}
	for field, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s = %q, want %q", field, c[0], c[1])
		}
	}

	active := 0
	for _, tab := range card.Tabs {
		if tab.Active {
			active++
			if tab.Key != "night" {
				t.Errorf("active tab = %s, want night", tab.Key)
			}
		}
	}
	if active != 1 {
		t.Errorf("%d active tabs, want 1", active)
	}

	state.IsUsingCurrentLocation = true
	card = BuildCard(state, FocusDay)
	if card.Header != "Current Location" || card.Mode != "Using GPS" {
		t.Errorf("GPS card header = %q / %q", card.Header, card.Mode)
	}
}

func TestBuildCard_NoWeather(t *testing.T) {
	if card := BuildCard(dashboard.AppState{LocationName: "Paris"}, FocusDay); card != nil {
		t.Errorf("BuildCard without snapshot = %+v, want nil", card)
	}
}

func TestLocationLabel(t *testing.T) {
	if got := LocationLabel(dashboard.AppState{}); got != "Detecting..." {
		t.Errorf("no weather label = %q", got)
	}
	if got := LocationLabel(dashboard.AppState{Snapshot: &models.Snapshot{}}); got != "Your location" {
		t.Errorf("unnamed weather label = %q", got)
	}
	if got := LocationLabel(dashboard.AppState{LocationName: "Oslo, Norway"}); got != "Oslo, Norway" {
		t.Errorf("named label = %q", got)
	}
}

func TestBuildForecastStrip(t *testing.T) {
	daily := models.DailyForecast{
		day("2025-10-13", 0, 10, 20),
		day("2025-10-14", 3, 12, 22),
		day("2025-10-15", 61, 8, 18),
		day("2025-10-16", 95, 15, 25),
		day("2025-10-17", 71, 9, 19),
		day("2025-10-18", 0, 1, 30), // beyond the window
	}

	bars := BuildForecastStrip(daily)
	if len(bars) != StripDays {
		t.Fatalf("got %d bars, want %d", len(bars), StripDays)
	}

	const lo, span = 8.0, 17.0
	for i, b := range bars {
		d := daily[i]
		left := (d.TempMin - lo) / span * 100
		right := (d.TempMax - lo) / span * 100
		if math.Abs(b.Left-left) > 1e-9 {
			t.Errorf("bar %d left = %v, want %v", i, b.Left, left)
		}
		if math.Abs(b.Width-math.Max(right-left, 4)) > 1e-9 {
			t.Errorf("bar %d width = %v, want %v", i, b.Width, right-left)
		}
	}

	if bars[0].Day != "Mon" || bars[4].Day != "Fri" {
		t.Errorf("day labels = %s..%s, want Mon..Fri", bars[0].Day, bars[4].Day)
	}
	if bars[2].Left != 0 {
		t.Errorf("coldest day should start at 0, got %v", bars[2].Left)
	}
	if got := bars[3].Left + bars[3].Width; math.Abs(got-100) > 1e-9 {
		t.Errorf("warmest day should end at 100, got %v", got)
	}
	if bars[0].Low != "10°" || bars[0].High != "20°" {
		t.Errorf("labels = %s / %s", bars[0].Low, bars[0].High)
	}
	if bars[3].Condition.Label != "Thunderstorm" {
		t.Errorf("condition = %s", bars[3].Condition.Label)
	}
}

func TestBuildForecastStrip_FlatRangeUsesMinimumWidth(t *testing.T) {
	daily := models.DailyForecast{
		day("2025-10-13", 0, 10, 10),
		day("2025-10-14", 0, 10, 10),
	}
	for i, b := range BuildForecastStrip(daily) {
		if b.Left != 0 || b.Width != 4 {
			t.Errorf("bar %d = left %v width %v, want 0 / 4", i, b.Left, b.Width)
		}
	}
}

func TestBuildForecastStrip_Empty(t *testing.T) {
	if bars := BuildForecastStrip(nil); bars != nil {
		t.Errorf("BuildForecastStrip(nil) = %v, want nil", bars)
	}
}

func TestRenderText(t *testing.T) {
	state := dashboard.AppState{
		LocationName: "Oslo, Norway",
		LastError:    "",
		Snapshot: &models.Snapshot{
			Current:  models.CurrentConditions{Temperature: 6.5, WeatherCode: 3},
			TodayMax: ptr(9),
			TodayMin: ptr(2),
			Daily:    models.DailyForecast{day("2025-10-13", 3, 2, 9)},
		},
	}

	text, err := RenderText(state, FocusDay)
	if err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	for _, want := range []string{"Oslo, Norway", "Today High", "9°C", "5-Day Outlook", "Mon", "Overcast"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "<div") {
		t.Errorf("text contains markup:\n%s", text)
	}
}
