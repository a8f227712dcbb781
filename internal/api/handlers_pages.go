package api

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lox/skypulse/internal/dashboard"
	"github.com/lox/skypulse/internal/forecast"
	"github.com/lox/skypulse/internal/geo"
)

// PageData is everything the index page renders.
type PageData struct {
	State      dashboard.AppState
	Card       *CardView
	Forecast   []ForecastBar
	Focus      string
	AutoLocate bool
	Geo        GeoOptions
	Palette    template.CSS
}

// GeoOptions are the browser geolocation options, in milliseconds.
type GeoOptions struct {
	HighAccuracy bool
	TimeoutMS    int64
	MaximumAgeMS int64
}

func (s *Server) pageData(focus Focus) PageData {
	state := s.ctrl.State()
	data := PageData{
		State:      state,
		Card:       BuildCard(state, focus),
		Focus:      focus.String(),
		AutoLocate: !state.LocateRequested && !state.HasWeather(),
		Palette:    template.CSS(forecast.DefaultPalette.CSSVars()),
		Geo: GeoOptions{
			HighAccuracy: s.geoOpts.EnableHighAccuracy,
			TimeoutMS:    s.geoOpts.Timeout.Milliseconds(),
			MaximumAgeMS: s.geoOpts.MaximumAge.Milliseconds(),
		},
	}
	if state.Snapshot != nil {
		data.Forecast = BuildForecastStrip(state.Snapshot.Daily)
		cond := forecast.Category(state.Snapshot.Current.WeatherCode)
		data.Palette = template.CSS(forecast.GetPalette(cond).CSSVars())
	}
	return data
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.log.Errorw("template error", "template", name, "error", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", s.pageData(ParseFocus(r.URL.Query().Get("focus"))))
}

func (s *Server) handleClockPartial(w http.ResponseWriter, r *http.Request) {
	s.render(w, "clock.html", s.ctrl.State().Clock)
}

func (s *Server) handleCardPartial(w http.ResponseWriter, r *http.Request) {
	focus := ParseFocus(r.URL.Query().Get("focus"))
	s.render(w, "card.html", BuildCard(s.ctrl.State(), focus))
}

func (s *Server) handleForecastPartial(w http.ResponseWriter, r *http.Request) {
	var bars []ForecastBar
	if snap := s.ctrl.State().Snapshot; snap != nil {
		bars = BuildForecastStrip(snap.Daily)
	}
	s.render(w, "forecast.html", bars)
}

// handleSearch runs a search from the page form. Failures are already in
// the state, so the response is always a redirect back to the page.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	text := r.PostForm.Get("q")
	s.ctrl.SetSearchText(text)
	if err := s.ctrl.Search(detach(r), text); err != nil {
		s.log.Debugw("search failed", "query", text, "error", err)
	}
	redirectHome(w, r, r.PostForm.Get("focus"))
}

// handleLocate accepts the outcome of the browser's position request.
func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	g, err := reportedFromForm(r.PostForm)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.ctrl.UseCurrentLocation(detach(r), g); err != nil {
		s.log.Debugw("locate failed", "error", err)
	}
	redirectHome(w, r, r.PostForm.Get("focus"))
}

func redirectHome(w http.ResponseWriter, r *http.Request, focus string) {
	target := "/"
	if f := ParseFocus(focus); f != FocusDay {
		target += "?focus=" + url.QueryEscape(f.String())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type badRequestError string

func (e badRequestError) Error() string { return string(e) }

// reportedFromForm builds the geolocator for a locate post: unsupported=1
// for browsers without geolocation, code=N for a failed request, otherwise
// lat and lon.
func reportedFromForm(form url.Values) (geo.Geolocator, error) {
	if form.Get("unsupported") != "" {
		return nil, nil
	}
	return reportedPosition(form.Get("code"), form.Get("lat"), form.Get("lon"))
}

func reportedPosition(code, lat, lon string) (geo.Geolocator, error) {
	if code != "" && code != "0" {
		n, err := strconv.Atoi(code)
		if err != nil {
			return nil, badRequestError("invalid code")
		}
		return geo.Reported{Code: n}, nil
	}
	latitude, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, badRequestError("invalid lat")
	}
	longitude, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return nil, badRequestError("invalid lon")
	}
	return geo.Reported{Position: geo.Position{Latitude: latitude, Longitude: longitude}}, nil
}
