package api

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lox/skypulse/internal/dashboard"
	"github.com/lox/skypulse/internal/forecast"
	"github.com/lox/skypulse/internal/ingest"
	"github.com/lox/skypulse/internal/models"
)

// StripDays is how many daily entries the forecast strip shows.
const StripDays = 5

// Placeholder is shown in place of an absent temperature.
const Placeholder = "--"

// Focus selects which detail panel the weather card shows.
type Focus int

const (
	FocusDay Focus = iota
	FocusNight
	FocusSky
	FocusWind
)

var focusKeys = [...]string{"day", "night", "sky", "wind"}

func (f Focus) String() string {
	if f < FocusDay || f > FocusWind {
		return focusKeys[FocusDay]
	}
	return focusKeys[f]
}

// ParseFocus accepts a focus key (or the icon name used for its tab).
// Anything else selects the day view.
func ParseFocus(s string) Focus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "night", "moon":
		return FocusNight
	case "sky", "cloud":
		return FocusSky
	case "wind":
		return FocusWind
	default:
		return FocusDay
	}
}

// FocusTab is one of the selector buttons under the big card icon.
type FocusTab struct {
	Key    string
	Icon   string
	Label  string
	Active bool
}

func focusTabs(active Focus) []FocusTab {
	tabs := []FocusTab{
		{Key: FocusDay.String(), Icon: "☀️", Label: "Sun"},
		{Key: FocusNight.String(), Icon: "🌙", Label: "Moon"},
		{Key: FocusSky.String(), Icon: "☁️", Label: "Cloud"},
		{Key: FocusWind.String(), Icon: "🌬️", Label: "Wind"},
	}
	if active < FocusDay || active > FocusWind {
		active = FocusDay
	}
	tabs[active].Active = true
	return tabs
}

// FocusPanel is the detail section for one focus, with the icon and theme
// it imposes on the card.
type FocusPanel struct {
	Title     string
	Line1     string
	Line2     string
	Icon      string
	Animation string // pulse or bounce
	Theme     string
	Dark      bool
}

// BuildFocusPanel renders the detail text for f. It never fails: absent
// values produce a "not available" line.
func BuildFocusPanel(f Focus, snap *models.Snapshot) FocusPanel {
	switch f {
	case FocusNight:
		p := FocusPanel{
			Title:     "Night Temperature",
			Line1:     "Night temperature data is not available.",
			Line2:     "Helps you decide how cold or warm the night will feel.",
			Icon:      "🌙",
			Animation: "pulse",
			Theme:     "theme-night",
			Dark:      true,
		}
		if snap != nil && snap.TodayMin != nil {
			p.Line1 = fmt.Sprintf("Tonight’s minimum temperature may drop to around %d°C.", RoundJS(*snap.TodayMin))
		}
		return p

	case FocusSky:
		label := forecast.Unknown.Label
		if snap != nil {
			label = forecast.Describe(snap.Current.WeatherCode).Label
		}
		return FocusPanel{
			Title:     "Cloud & Rain",
			Line1:     fmt.Sprintf("Current sky condition: %s.", label),
			Line2:     "Shows if it is clear, cloudy or raining, based on live weather code.",
			Icon:      "🌧️",
			Animation: "bounce",
			Theme:     "theme-sky",
		}

	case FocusWind:
		var speed, dir float64
		if snap != nil {
			speed, dir = snap.Current.WindSpeed, snap.Current.WindDirection
		}
		return FocusPanel{
			Title:     "Wind Details",
			Line1:     fmt.Sprintf("Wind speed is around %d km/h.", RoundJS(speed)),
			Line2:     fmt.Sprintf("Wind direction is approximately %d°, showing where the wind is blowing from.", RoundJS(dir)),
			Icon:      "💨",
			Animation: "pulse",
			Theme:     "theme-wind",
		}

	default:
		p := FocusPanel{
			Title:     "Day Temperature",
			Line1:     "Day temperature data is not available.",
			Line2:     "Use this to check daytime heat and plan outdoor activities.",
			Icon:      "☀️",
			Animation: "pulse",
			Theme:     "theme-day",
		}
		if snap != nil && snap.TodayMax != nil {
			p.Line1 = fmt.Sprintf("Today’s maximum temperature is around %d°C.", RoundJS(*snap.TodayMax))
		}
		return p
	}
}

// CardView is the main weather card.
type CardView struct {
	Header       string // Current Location / Selected Location
	Mode         string // Using GPS / Manual search
	LocationName string
	Date         string
	Updated      string
	Code         int

	Temperature    string
	Condition      forecast.Description
	ConditionClass string

	Now  string
	High string
	Low  string

	Focus string
	Panel FocusPanel
	Tabs  []FocusTab
}

// LocationLabel is the name shown for the active location. Before any
// weather has loaded it reads "Detecting...".
func LocationLabel(state dashboard.AppState) string {
	if state.LocationName != "" {
		return state.LocationName
	}
	if state.HasWeather() {
		return ingest.FallbackLocationName
	}
	return "Detecting..."
}

// BuildCard returns the card for state, or nil when there is no weather.
func BuildCard(state dashboard.AppState, focus Focus) *CardView {
	snap := state.Snapshot
	if snap == nil {
		return nil
	}
	cur := snap.Current

	card := &CardView{
		Header:         "Selected Location",
		Mode:           "Manual search",
		LocationName:   LocationLabel(state),
		Code:           cur.WeatherCode,
		Temperature:    strconv.Itoa(RoundJS(cur.Temperature)),
		Condition:      forecast.Describe(cur.WeatherCode),
		ConditionClass: forecast.Category(cur.WeatherCode).CSSClass(),
		Now:            FormatTemp(&cur.Temperature),
		High:           FormatTemp(snap.TodayMax),
		Low:            FormatTemp(snap.TodayMin),
		Focus:          focus.String(),
		Panel:          BuildFocusPanel(focus, snap),
		Tabs:           focusTabs(focus),
	}
	if state.IsUsingCurrentLocation {
		card.Header = "Current Location"
		card.Mode = "Using GPS"
	}
	if !cur.ObservedAt.IsZero() {
		card.Date = cur.ObservedAt.Format("Mon, 02 Jan")
		card.Updated = cur.ObservedAt.Format("15:04")
	}
	return card
}

// ForecastBar is one row of the 5-day strip. Left and Width are percentages
// of the strip's temperature range.
type ForecastBar struct {
	Date      time.Time
	Day       string
	Low       string
	High      string
	LowValue  float64
	HighValue float64
	Left      float64
	Width     float64
	Condition forecast.Description
}

// BuildForecastStrip lays out the first five days. The scale runs from the
// lowest minimum to the highest maximum in that window; a zero range is
// treated as 1 and bars are at least 4 points wide.
func BuildForecastStrip(daily models.DailyForecast) []ForecastBar {
	days := daily.First(StripDays)
	if len(days) == 0 {
		return nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, d := range days {
		lo = math.Min(lo, d.TempMin)
		hi = math.Max(hi, d.TempMax)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	scale := func(v float64) float64 {
		return (v - lo) / span * 100
	}

	bars := make([]ForecastBar, 0, len(days))
	for _, d := range days {
		left := scale(d.TempMin)
		right := scale(d.TempMax)
		bars = append(bars, ForecastBar{
			Date:      d.Date,
			Day:       d.Date.Format("Mon"),
			Low:       strconv.Itoa(RoundJS(d.TempMin)) + "°",
			High:      strconv.Itoa(RoundJS(d.TempMax)) + "°",
			LowValue:  d.TempMin,
			HighValue: d.TempMax,
			Left:      left,
			Width:     math.Max(right-left, 4),
			Condition: forecast.Describe(d.WeatherCode),
		})
	}
	return bars
}

// RoundJS rounds half up towards positive infinity, so 2.5 → 3 and
// -2.5 → -2.
func RoundJS(v float64) int {
	r := math.Floor(v)
	if v-r >= 0.5 {
		r++
	}
	return int(r)
}

// FormatTemp renders a rounded °C value, or "--°C" when absent.
func FormatTemp(v *float64) string {
	if v == nil {
		return Placeholder + "°C"
	}
	return strconv.Itoa(RoundJS(*v)) + "°C"
}
