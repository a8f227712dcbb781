package dashboard

import (
	"time"

	"github.com/lox/skypulse/internal/models"
)

// Clock is the formatted wall clock shown in the header.
type Clock struct {
	Time string
	Date string
}

const (
	clockTimeLayout = "15:04:05"
	clockDateLayout = "Mon, 02 Jan 2006"
)

// FormatClock renders t as "15:04:05" and "Mon, 02 Jan 2006".
func FormatClock(t time.Time) Clock {
	return Clock{
		Time: t.Format(clockTimeLayout),
		Date: t.Format(clockDateLayout),
	}
}

// AppState is the whole dashboard state. It is replaced as a unit on every
// change; readers always get a consistent copy. Snapshot is shared but never
// mutated.
type AppState struct {
	SearchText             string
	Snapshot               *models.Snapshot
	LocationName           string
	IsUsingCurrentLocation bool
	IsSearching            bool
	IsLocating             bool
	LocateRequested        bool
	LastError              string
	Clock                  Clock
	Revision               uint64

	// WeatherToken is the request token that produced Snapshot.
	WeatherToken uint64
}

// HasWeather reports whether a snapshot is displayed.
func (s AppState) HasWeather() bool {
	return s.Snapshot != nil
}

// Busy reports whether a search or locate is in flight.
func (s AppState) Busy() bool {
	return s.IsSearching || s.IsLocating
}
