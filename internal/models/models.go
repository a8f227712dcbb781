package models

import "time"

// Location is a single resolved place. It is never mutated after creation.
type Location struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
}

type CurrentConditions struct {
	Temperature   float64 // °C
	WindSpeed     float64 // km/h
	WindDirection float64 // degrees, 0-360
	WeatherCode   int
	ObservedAt    time.Time
}

type DailyEntry struct {
	Date        time.Time
	WeatherCode int
	TempMax     float64
	TempMin     float64
}

// DailyForecast is ordered by ascending date.
type DailyForecast []DailyEntry

// First returns at most the first n entries.
func (d DailyForecast) First(n int) DailyForecast {
	if len(d) <= n {
		return d
	}
	return d[:n]
}

// Snapshot is the full payload of one successful forecast fetch. A new fetch
// replaces the snapshot wholesale; snapshots are shared read-only.
type Snapshot struct {
	Current  CurrentConditions
	TodayMax *float64
	TodayMin *float64
	Daily    DailyForecast
	Timezone string
}
