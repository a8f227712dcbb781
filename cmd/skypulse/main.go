package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/lox/skypulse/internal/api"
	"github.com/lox/skypulse/internal/config"
	"github.com/lox/skypulse/internal/dashboard"
	"github.com/lox/skypulse/internal/geo"
	"github.com/lox/skypulse/internal/httputil"
	"github.com/lox/skypulse/internal/ingest"
	"github.com/lox/skypulse/internal/store"
)

type CLI struct {
	Config  string   `help:"Path to a YAML config file." type:"path"`
	EnvFile []string `help:"Env files to load before reading config." name:"env-file" type:"path"`
	Dev     bool     `help:"Use development (console) logging."`

	Serve  ServeCmd  `cmd:"" default:"1" help:"Run the dashboard server."`
	Lookup LookupCmd `cmd:"" help:"Search for a place and print its weather."`
	Locate LocateCmd `cmd:"" help:"Print the weather at a coordinate pair."`
}

// app carries what every command needs.
type app struct {
	cfg *config.Config
	log *zap.SugaredLogger
}

// session opens the audit log and builds a controller backed by the
// Open-Meteo clients.
func (a *app) session() (*dashboard.Controller, *store.Store, error) {
	st, err := store.Open(a.cfg.StorePath, a.log)
	if err != nil {
		return nil, nil, err
	}

	client := httputil.NewClient(a.cfg.HTTPTimeout)
	geocoder := ingest.NewGeocoder(a.cfg.GeocodingURL, client, a.log)
	geocoder.SetRecorder(st)
	forecast := ingest.NewForecastClient(a.cfg.ForecastURL, client, a.log)
	forecast.SetRecorder(st)

	ctrl := dashboard.New(geocoder, forecast,
		dashboard.WithLogger(a.log),
		dashboard.WithClock(time.Now, a.cfg.Timezone),
	)
	return ctrl, st, nil
}

type ServeCmd struct {
	Port     string   `help:"HTTP port (overrides server.port)."`
	Lat      *float64 `help:"Device latitude for the start-up locate."`
	Lon      *float64 `help:"Device longitude for the start-up locate."`
	NoLocate bool     `help:"Do not locate with configured coordinates on start-up."`
}

func (c *ServeCmd) Run(a *app) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if c.Port != "" {
		a.cfg.Port = c.Port
	}

	pos := a.cfg.Location
	if c.Lat != nil || c.Lon != nil {
		if c.Lat == nil || c.Lon == nil {
			return fmt.Errorf("--lat and --lon must be given together")
		}
		pos = &geo.Position{Latitude: *c.Lat, Longitude: *c.Lon}
		if !pos.Valid() {
			return fmt.Errorf("coordinates out of range: %v,%v", *c.Lat, *c.Lon)
		}
	}

	ctrl, st, err := a.session()
	if err != nil {
		return err
	}
	defer st.Close()
	defer ctrl.Close()

	// Without a configured position the page asks the browser on first load.
	var g geo.Geolocator
	if pos != nil && !c.NoLocate {
		g = geo.Static(*pos)
	}
	go func() {
		if err := ctrl.Mount(ctx, g); err != nil {
			a.log.Warnw("start-up locate failed", "error", err)
		}
	}()

	server := api.NewServer(ctrl, st, a.cfg.Addr(), a.log)
	return server.Run(ctx)
}

type LookupCmd struct {
	Place []string `arg:"" help:"Place name, e.g. Springfield."`
	Focus string   `help:"Card detail view." enum:"day,night,sky,wind" default:"day"`
	Runs  bool     `help:"Print a summary of upstream calls."`
}

func (c *LookupCmd) Run(a *app) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ctrl, st, err := a.session()
	if err != nil {
		return err
	}
	defer st.Close()

	searchErr := ctrl.Search(ctx, strings.Join(c.Place, " "))
	if err := printState(ctrl.State(), c.Focus); err != nil {
		return err
	}
	if c.Runs {
		if err := printRuns(st); err != nil {
			return err
		}
	}
	return searchErr
}

type LocateCmd struct {
	Lat   float64 `required:"" help:"Latitude."`
	Lon   float64 `required:"" help:"Longitude."`
	Focus string  `help:"Card detail view." enum:"day,night,sky,wind" default:"day"`
}

func (c *LocateCmd) Run(a *app) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ctrl, st, err := a.session()
	if err != nil {
		return err
	}
	defer st.Close()

	locateErr := ctrl.UseCurrentLocation(ctx, geo.Static{Latitude: c.Lat, Longitude: c.Lon})
	if err := printState(ctrl.State(), c.Focus); err != nil {
		return err
	}
	return locateErr
}

func printState(state dashboard.AppState, focus string) error {
	text, err := api.RenderText(state, api.ParseFocus(focus))
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func printRuns(st *store.Store) error {
	summaries, err := st.SummarizeRuns()
	if err != nil {
		return fmt.Errorf("summarize runs: %w", err)
	}
	fmt.Println()
	for _, s := range summaries {
		fmt.Printf("%-10s %-8s %d calls, %d failed\n", s.Source, s.Endpoint, s.TotalRuns, s.FailedRuns)
	}
	return nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("skypulse"),
		kong.Description("SkyPulse weather dashboard."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(cli.Config, cli.EnvFile...)
	kctx.FatalIfErrorf(err)

	log, err := config.NewLogger(cli.Dev || cfg.Development)
	kctx.FatalIfErrorf(err)
	defer log.Sync()

	if err := kctx.Run(&app{cfg: cfg, log: log}); err != nil {
		log.Errorw("command failed", "command", kctx.Command(), "error", err)
		log.Sync()
		os.Exit(1)
	}
}
