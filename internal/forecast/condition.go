package forecast

// Description is the human label and icon glyph for a weather code.
type Description struct {
	Label string
	Icon  string
}

// Unknown is returned for codes outside the table.
var Unknown = Description{Label: "Unknown", Icon: "❔"}

// Condition is a coarse grouping of weather codes used for styling.
type Condition string

const (
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionFog     Condition = "fog"
	ConditionDrizzle Condition = "drizzle"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionUnknown Condition = "unknown"
)

type codeEntry struct {
	desc      Description
	condition Condition
}

// WMO weather interpretation codes as used by Open-Meteo.
var codes = map[int]codeEntry{
	0:  {Description{"Clear sky", "☀️"}, ConditionClear},
	1:  {Description{"Mainly clear", "🌤️"}, ConditionClear},
	2:  {Description{"Partly cloudy", "⛅"}, ConditionCloudy},
	3:  {Description{"Overcast", "☁️"}, ConditionCloudy},
	45: {Description{"Fog", "🌫️"}, ConditionFog},
	48: {Description{"Depositing rime fog", "🌫️"}, ConditionFog},
	51: {Description{"Light drizzle", "🌦️"}, ConditionDrizzle},
	53: {Description{"Moderate drizzle", "🌦️"}, ConditionDrizzle},
	55: {Description{"Dense drizzle", "🌧️"}, ConditionDrizzle},
	56: {Description{"Light freezing drizzle", "🌧️"}, ConditionDrizzle},
	57: {Description{"Dense freezing drizzle", "🌧️"}, ConditionDrizzle},
	61: {Description{"Slight rain", "🌦️"}, ConditionRain},
	63: {Description{"Moderate rain", "🌧️"}, ConditionRain},
	65: {Description{"Heavy rain", "🌧️"}, ConditionRain},
	66: {Description{"Light freezing rain", "🌧️"}, ConditionRain},
	67: {Description{"Heavy freezing rain", "🌧️"}, ConditionRain},
	71: {Description{"Slight snow fall", "🌨️"}, ConditionSnow},
	73: {Description{"Moderate snow fall", "🌨️"}, ConditionSnow},
	75: {Description{"Heavy snow fall", "❄️"}, ConditionSnow},
	77: {Description{"Snow grains", "🌨️"}, ConditionSnow},
	80: {Description{"Slight rain showers", "🌦️"}, ConditionRain},
	81: {Description{"Moderate rain showers", "🌧️"}, ConditionRain},
	82: {Description{"Violent rain showers", "⛈️"}, ConditionRain},
	85: {Description{"Slight snow showers", "🌨️"}, ConditionSnow},
	86: {Description{"Heavy snow showers", "❄️"}, ConditionSnow},
	95: {Description{"Thunderstorm", "⛈️"}, ConditionStorm},
	96: {Description{"Thunderstorm with slight hail", "⛈️"}, ConditionStorm},
	99: {Description{"Thunderstorm with heavy hail", "⛈️"}, ConditionStorm},
}

// Describe returns the label and icon for a weather code. Codes are an open
// enumeration owned by the provider, so unknown codes map to Unknown.
func Describe(code int) Description {
	if e, ok := codes[code]; ok {
		return e.desc
	}
	return Unknown
}

// Category returns the coarse condition group for a weather code.
func Category(code int) Condition {
	if e, ok := codes[code]; ok {
		return e.condition
	}
	return ConditionUnknown
}

// CSSClass returns the CSS class for styling a condition badge.
func (c Condition) CSSClass() string {
	return "cond-" + string(c)
}
