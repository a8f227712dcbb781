package api

import (
	"bytes"
	"fmt"

	"github.com/lox/skypulse/internal/dashboard"
	"github.com/lox/skypulse/internal/htmlutil"
)

// RenderText renders the status, card and forecast strip for a terminal,
// using the same templates as the page.
func RenderText(state dashboard.AppState, focus Focus) (string, error) {
	tmpl := sharedTemplates()

	var bars []ForecastBar
	if state.Snapshot != nil {
		bars = BuildForecastStrip(state.Snapshot.Daily)
	}

	var buf bytes.Buffer
	parts := []struct {
		name string
		data any
	}{
		{"status.html", state},
		{"card.html", BuildCard(state, focus)},
		{"forecast.html", bars},
	}
	for _, p := range parts {
		if err := tmpl.ExecuteTemplate(&buf, p.name, p.data); err != nil {
			return "", fmt.Errorf("render %s: %w", p.name, err)
		}
	}
	return htmlutil.ToText(buf.String()), nil
}
