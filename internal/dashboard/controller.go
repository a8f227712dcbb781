package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lox/skypulse/internal/geo"
	"github.com/lox/skypulse/internal/ingest"
	"github.com/lox/skypulse/internal/metrics"
	"github.com/lox/skypulse/internal/models"
)

// User-visible messages set in AppState.LastError.
const (
	MsgPermissionDenied  = "Location permission denied. You can still search by city name."
	MsgLocateUnavailable = "Unable to detect your location. Please search manually."
	MsgUnsupported       = "Geolocation is not supported in this browser."
	MsgLocateFailed      = "Failed to get current location weather."
	MsgSearchFailed      = "Failed to fetch weather for that place."
)

// Resolver turns place names into locations and positions into names.
type Resolver interface {
	ResolveByName(ctx context.Context, query string) (models.Location, error)
	ResolveByCoordinates(ctx context.Context, lat, lon float64) string
}

// Fetcher retrieves a weather snapshot for a coordinate pair.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lon float64) (*models.Snapshot, error)
}

type operation string

const (
	opSearch operation = "search"
	opLocate operation = "locate"
)

// Controller owns the dashboard state. Search and locate requests may
// overlap; each is tagged with a token from one increasing sequence and its
// result is applied only if no newer request of the same kind was issued and
// no newer request of either kind has already written results.
type Controller struct {
	resolver Resolver
	fetcher  Fetcher
	log      *zap.SugaredLogger
	geoOpts  geo.PositionOptions

	now  func() time.Time
	loc  *time.Location
	tick time.Duration

	mu        sync.Mutex
	state     AppState
	seq       uint64
	latest    map[operation]uint64
	lastWrite uint64

	clockOnce sync.Once
	closeOnce sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards output.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Controller) { c.log = log }
}

// WithClock overrides the time source and display timezone.
func WithClock(now func() time.Time, loc *time.Location) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithTickInterval sets how often the clock updates.
func WithTickInterval(d time.Duration) Option {
	return func(c *Controller) { c.tick = d }
}

// WithPositionOptions overrides geo.DefaultOptions for locate requests.
func WithPositionOptions(opts geo.PositionOptions) Option {
	return func(c *Controller) { c.geoOpts = opts }
}

// New returns a controller with no weather that assumes the current
// location until a search succeeds.
func New(resolver Resolver, fetcher Fetcher, opts ...Option) *Controller {
	c := &Controller{
		resolver: resolver,
		fetcher:  fetcher,
		log:      zap.NewNop().Sugar(),
		geoOpts:  geo.DefaultOptions,
		now:      time.Now,
		loc:      time.Local,
		tick:     time.Second,
		latest:   make(map[operation]uint64),
		state:    AppState{IsUsingCurrentLocation: true},
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() AppState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Mount starts the clock and, when g is non-nil, runs the initial locate.
// A nil g leaves locating to a later UseCurrentLocation call (e.g. from the
// browser).
func (c *Controller) Mount(ctx context.Context, g geo.Geolocator) error {
	c.startClock(ctx)
	if g == nil {
		return nil
	}
	return c.UseCurrentLocation(ctx, g)
}

// Close stops the clock. It is safe to call more than once.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.stop)
	})
	// Claims the clock if it never started, so done is always closed.
	c.clockOnce.Do(func() { close(c.done) })
	<-c.done
}

// SetSearchText records the search box contents without searching.
func (c *Controller) SetSearchText(text string) {
	c.update(func(s AppState) AppState {
		s.SearchText = text
		return s
	})
}

// Search resolves text to a place and fetches its weather. Blank text is
// ignored. A failed search clears any displayed weather.
func (c *Controller) Search(ctx context.Context, text string) (err error) {
	query := strings.TrimSpace(text)
	if query == "" {
		return nil
	}

	token := c.begin(opSearch, func(s AppState) AppState {
		s.SearchText = text
		s.IsSearching = true
		s.LastError = ""
		return s
	})

	var (
		loc  models.Location
		snap *models.Snapshot
	)
	defer func() {
		if err == nil && snap == nil {
			err = errors.New("search did not complete")
		}
		c.finish(opSearch, token, err,
			func(s AppState) AppState {
				s.IsSearching = false
				return s
			},
			func(s AppState) AppState {
				if err != nil {
					s.LastError = userMessage(err, MsgSearchFailed)
					s.Snapshot = nil
					s.WeatherToken = 0
					s.LocationName = ""
					return s
				}
				s.Snapshot = snap
				s.WeatherToken = token
				s.LocationName = loc.DisplayName
				s.IsUsingCurrentLocation = false
				s.LastError = ""
				return s
			})
	}()

	loc, err = c.resolver.ResolveByName(ctx, query)
	if err != nil {
		c.log.Warnw("search: resolve failed", "query", query, "token", token, "error", err)
		return err
	}
	snap, err = c.fetcher.Fetch(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		c.log.Warnw("search: fetch failed", "query", query, "lat", loc.Latitude, "lon", loc.Longitude, "token", token, "error", err)
		return err
	}
	c.log.Infow("search: resolved", "query", query, "location", loc.DisplayName, "token", token)
	return nil
}

// UseCurrentLocation requests the device position from g and shows the
// weather there. The reverse-geocoded name is looked up alongside the
// forecast; failing to name the place never fails the operation.
func (c *Controller) UseCurrentLocation(ctx context.Context, g geo.Geolocator) (err error) {
	if g == nil {
		token := c.begin(opLocate, func(s AppState) AppState {
			s.LocateRequested = true
			return s
		})
		err = geo.ErrUnsupported
		c.finish(opLocate, token, err, func(s AppState) AppState {
			s.IsLocating = false
			return s
		}, func(s AppState) AppState {
			s.LastError = MsgUnsupported
			return s
		})
		return err
	}

	token := c.begin(opLocate, func(s AppState) AppState {
		s.IsLocating = true
		s.LocateRequested = true
		s.LastError = ""
		return s
	})

	var (
		name string
		snap *models.Snapshot
		msg  string
	)
	defer func() {
		if err == nil && snap == nil {
			err = errors.New("locate did not complete")
			msg = MsgLocateFailed
		}
		c.finish(opLocate, token, err,
			func(s AppState) AppState {
				s.IsLocating = false
				return s
			},
			func(s AppState) AppState {
				if err != nil {
					s.LastError = msg
					return s
				}
				s.Snapshot = snap
				s.WeatherToken = token
				s.LocationName = name
				s.IsUsingCurrentLocation = true
				s.LastError = ""
				return s
			})
	}()

	pos, err := geo.Request(ctx, g, c.geoOpts)
	if err != nil {
		c.log.Warnw("locate: position unavailable", "token", token, "error", err)
		if errors.Is(err, geo.ErrPermissionDenied) {
			msg = MsgPermissionDenied
		} else {
			msg = MsgLocateUnavailable
		}
		return err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		name = c.resolver.ResolveByCoordinates(ctx, pos.Latitude, pos.Longitude)
	}()
	snap, err = c.fetcher.Fetch(ctx, pos.Latitude, pos.Longitude)
	wg.Wait()

	if err != nil {
		c.log.Warnw("locate: fetch failed", "lat", pos.Latitude, "lon", pos.Longitude, "token", token, "error", err)
		msg = userMessage(err, MsgLocateFailed)
		snap = nil
		return err
	}
	c.log.Infow("locate: resolved", "lat", pos.Latitude, "lon", pos.Longitude, "location", name, "token", token)
	return nil
}

// update replaces the state with fn applied to a copy of it.
func (c *Controller) update(fn func(AppState) AppState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(fn(c.state))
}

// store must be called with c.mu held.
func (c *Controller) store(next AppState) {
	next.Revision = c.state.Revision + 1
	c.state = next
}

// begin issues a token for op and applies the in-flight state.
func (c *Controller) begin(op operation, fn func(AppState) AppState) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.latest[op] = c.seq
	c.store(fn(c.state))
	return c.seq
}

// finish applies the outcome of the request identified by token. Responses
// superseded by a newer request of the same kind are dropped entirely. The
// in-flight flag is cleared by the newest request of each kind; results are
// written only if nothing newer has written results already.
func (c *Controller) finish(op operation, token uint64, err error, clear, result func(AppState) AppState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.latest[op] {
		metrics.ControllerOperations.WithLabelValues(string(op), "stale").Inc()
		c.log.Debugw("discarding stale response", "op", op, "token", token, "latest", c.latest[op])
		return
	}

	next := c.state
	if clear != nil {
		next = clear(next)
	}
	if token > c.lastWrite {
		next = result(next)
		c.lastWrite = token
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.ControllerOperations.WithLabelValues(string(op), outcome).Inc()
	} else {
		metrics.ControllerOperations.WithLabelValues(string(op), "stale").Inc()
		c.log.Debugw("discarding superseded result", "op", op, "token", token, "last_write", c.lastWrite)
	}
	c.store(next)
}

// userMessage converts a pipeline error into the text shown to the user.
func userMessage(err error, fallback string) string {
	var ne *ingest.NetworkError
	if errors.As(err, &ne) && ne.Error() != "" {
		return ne.Error()
	}
	var nf *ingest.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	return fallback
}
