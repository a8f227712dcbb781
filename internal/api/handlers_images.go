package api

import (
	"net/http"

	"github.com/lox/skypulse/internal/imagegen"
)

// StripBars converts forecast rows to the image renderer's bars.
func StripBars(bars []ForecastBar) []imagegen.Bar {
	out := make([]imagegen.Bar, 0, len(bars))
	for _, b := range bars {
		out = append(out, imagegen.Bar{
			Day:   b.Day,
			Low:   RoundJS(b.LowValue),
			High:  RoundJS(b.HighValue),
			Left:  b.Left,
			Width: b.Width,
		})
	}
	return out
}

// handleForecastImage serves the 5-day strip as a PNG. Renders are cached
// until the weather changes.
func (s *Server) handleForecastImage(w http.ResponseWriter, r *http.Request) {
	state := s.ctrl.State()
	if state.Snapshot == nil {
		http.NotFound(w, r)
		return
	}

	data, ok := s.imageCache.Get(state.WeatherToken)
	if !ok {
		bars := BuildForecastStrip(state.Snapshot.Daily)
		var err error
		data, err = imagegen.RenderStrip(StripBars(bars))
		if err != nil {
			s.log.Warnw("render forecast strip", "token", state.WeatherToken, "error", err)
			http.NotFound(w, r)
			return
		}
		s.imageCache.Set(state.WeatherToken, data)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(data)
}
