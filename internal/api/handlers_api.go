package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/lox/skypulse/internal/dashboard"
	"github.com/lox/skypulse/internal/forecast"
	"github.com/lox/skypulse/internal/geo"
	"github.com/lox/skypulse/internal/models"
)

type StateResponse struct {
	SearchText             string           `json:"search_text"`
	LocationName           string           `json:"location_name"`
	IsUsingCurrentLocation bool             `json:"is_using_current_location"`
	IsSearching            bool             `json:"is_searching"`
	IsLocating             bool             `json:"is_locating"`
	LastError              string           `json:"last_error,omitempty"`
	Clock                  ClockResponse    `json:"clock"`
	Revision               uint64           `json:"revision"`
	Weather                *WeatherResponse `json:"weather,omitempty"`
}

type ClockResponse struct {
	Time string `json:"time"`
	Date string `json:"date"`
}

type WeatherResponse struct {
	Current  CurrentResponse `json:"current"`
	TodayMax *float64        `json:"today_max"`
	TodayMin *float64        `json:"today_min"`
	Timezone string          `json:"timezone,omitempty"`
	Daily    []DailyResponse `json:"daily"`
}

type CurrentResponse struct {
	Temperature   float64   `json:"temperature"`
	WindSpeed     float64   `json:"windspeed"`
	WindDirection float64   `json:"winddirection"`
	WeatherCode   int       `json:"weathercode"`
	Time          time.Time `json:"time"`
	Label         string    `json:"label"`
	Icon          string    `json:"icon"`
}

type DailyResponse struct {
	Date        string  `json:"date"`
	WeatherCode int     `json:"weathercode"`
	TempMax     float64 `json:"temperature_2m_max"`
	TempMin     float64 `json:"temperature_2m_min"`
}

func NewStateResponse(state dashboard.AppState) StateResponse {
	resp := StateResponse{
		SearchText:             state.SearchText,
		LocationName:           state.LocationName,
		IsUsingCurrentLocation: state.IsUsingCurrentLocation,
		IsSearching:            state.IsSearching,
		IsLocating:             state.IsLocating,
		LastError:              state.LastError,
		Clock:                  ClockResponse{Time: state.Clock.Time, Date: state.Clock.Date},
		Revision:               state.Revision,
	}
	if state.Snapshot != nil {
		resp.Weather = newWeatherResponse(state.Snapshot)
	}
	return resp
}

func newWeatherResponse(snap *models.Snapshot) *WeatherResponse {
	cur := snap.Current
	desc := forecast.Describe(cur.WeatherCode)
	w := &WeatherResponse{
		Current: CurrentResponse{
			Temperature:   cur.Temperature,
			WindSpeed:     cur.WindSpeed,
			WindDirection: cur.WindDirection,
			WeatherCode:   cur.WeatherCode,
			Time:          cur.ObservedAt,
			Label:         desc.Label,
			Icon:          desc.Icon,
		},
		TodayMax: snap.TodayMax,
		TodayMin: snap.TodayMin,
		Timezone: snap.Timezone,
		Daily:    make([]DailyResponse, 0, len(snap.Daily)),
	}
	for _, d := range snap.Daily {
		w.Daily = append(w.Daily, DailyResponse{
			Date:        d.Date.Format(time.DateOnly),
			WeatherCode: d.WeatherCode,
			TempMax:     d.TempMax,
			TempMin:     d.TempMin,
		})
	}
	return w
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warnw("write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleAPIState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, NewStateResponse(s.ctrl.State()))
}

type searchRequest struct {
	Query string `json:"query"`
}

// handleAPISearch runs a search and returns the resulting state. Pipeline
// failures are reported through last_error, not the status code.
func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.ctrl.SetSearchText(req.Query)
	if err := s.ctrl.Search(detach(r), req.Query); err != nil {
		s.log.Debugw("api search failed", "query", req.Query, "error", err)
	}
	s.writeJSON(w, http.StatusOK, NewStateResponse(s.ctrl.State()))
}

type locateRequest struct {
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Code        int      `json:"code"`
	Unsupported bool     `json:"unsupported"`
}

func (req locateRequest) geolocator() (geo.Geolocator, error) {
	switch {
	case req.Unsupported:
		return nil, nil
	case req.Code != 0:
		return geo.Reported{Code: req.Code}, nil
	case req.Latitude == nil || req.Longitude == nil:
		return nil, errors.New("latitude and longitude are required")
	default:
		return geo.Reported{Position: geo.Position{Latitude: *req.Latitude, Longitude: *req.Longitude}}, nil
	}
}

func (s *Server) handleAPILocate(w http.ResponseWriter, r *http.Request) {
	var req locateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	g, err := req.geolocator()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.ctrl.UseCurrentLocation(detach(r), g); err != nil {
		s.log.Debugw("api locate failed", "error", err)
	}
	s.writeJSON(w, http.StatusOK, NewStateResponse(s.ctrl.State()))
}

type RunResponse struct {
	ID           int64     `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	Source       string    `json:"source"`
	Endpoint     string    `json:"endpoint"`
	Query        string    `json:"query,omitempty"`
	HTTPStatus   int64     `json:"http_status,omitempty"`
	Records      int64     `json:"records"`
	DurationMS   int64     `json:"duration_ms"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error,omitempty"`
}

const defaultRunsLimit = 20

func (s *Server) handleAPIRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, 500)
	}

	resp := []RunResponse{}
	if s.runs != nil {
		runs, err := s.runs.RecentRuns(limit)
		if err != nil {
			s.log.Errorw("list runs", "error", err)
			s.writeError(w, http.StatusInternalServerError, "failed to list runs")
			return
		}
		for _, run := range runs {
			resp = append(resp, RunResponse{
				ID:           run.ID,
				StartedAt:    run.StartedAt,
				Source:       run.Source,
				Endpoint:     run.Endpoint,
				Query:        run.Query.String,
				HTTPStatus:   run.HTTPStatus.Int64,
				Records:      run.RecordsParsed.Int64,
				DurationMS:   run.DurationMS.Int64,
				Success:      run.Success,
				ErrorMessage: run.ErrorMessage.String,
			})
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type HealthStatus struct {
	Status     string `json:"status"`
	HasWeather bool   `json:"has_weather"`
	LastError  string `json:"last_error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := s.ctrl.State()
	s.writeJSON(w, http.StatusOK, HealthStatus{
		Status:     "ok",
		HasWeather: state.HasWeather(),
		LastError:  state.LastError,
	})
}
