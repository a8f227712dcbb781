package ingest

import (
	"fmt"
	"time"

	"github.com/lox/skypulse/internal/models"
)

const (
	FlagSeriesLengthMismatch = "series_length_mismatch"
	FlagNullTemperature      = "null_temperature"
	FlagTempInverted         = "temp_max_below_min"
	FlagWindDirInvalid       = "wind_dir_invalid"
	FlagWindSpeedNegative    = "wind_speed_negative"
	FlagDatesNotAscending    = "dates_not_ascending"
)

// Normalize zips the parallel daily arrays into entries. The series is cut to
// the shortest of the date and temperature arrays so every entry is index
// aligned; days with a null temperature are dropped. A missing weather code
// is treated as 0.
func (d *DailySeries) Normalize(loc *time.Location) (models.DailyForecast, []string, error) {
	var flags []string

	n := len(d.Time)
	if len(d.TempMax) != n || len(d.TempMin) != n || (d.WeatherCode != nil && len(d.WeatherCode) != n) {
		flags = append(flags, FlagSeriesLengthMismatch)
	}
	n = min(n, len(d.TempMax), len(d.TempMin))

	daily := make(models.DailyForecast, 0, n)
	for i := 0; i < n; i++ {
		date, err := time.ParseInLocation(dailyDateLayout, d.Time[i], loc)
		if err != nil {
			return nil, flags, fmt.Errorf("parse daily.time[%d]=%q: %w", i, d.Time[i], err)
		}

		if d.TempMax[i] == nil || d.TempMin[i] == nil {
			flags = appendOnce(flags, FlagNullTemperature)
			continue
		}

		entry := models.DailyEntry{
			Date:    date,
			TempMax: *d.TempMax[i],
			TempMin: *d.TempMin[i],
		}
		if i < len(d.WeatherCode) && d.WeatherCode[i] != nil {
			entry.WeatherCode = *d.WeatherCode[i]
		}
		if entry.TempMax < entry.TempMin {
			flags = appendOnce(flags, FlagTempInverted)
		}
		if len(daily) > 0 && !entry.Date.After(daily[len(daily)-1].Date) {
			flags = appendOnce(flags, FlagDatesNotAscending)
		}
		daily = append(daily, entry)
	}

	return daily, flags, nil
}

// ValidateCurrent returns quality flags for current conditions.
func ValidateCurrent(c models.CurrentConditions) []string {
	var flags []string
	if c.WindDirection < 0 || c.WindDirection > 360 {
		flags = append(flags, FlagWindDirInvalid)
	}
	if c.WindSpeed < 0 {
		flags = append(flags, FlagWindSpeedNegative)
	}
	return flags
}

func appendOnce(flags []string, flag string) []string {
	for _, f := range flags {
		if f == flag {
			return flags
		}
	}
	return append(flags, flag)
}
