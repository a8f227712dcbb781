// Package geo models the device geolocation request used on start-up and by
// the "Use My Location" action.
package geo

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrPermissionDenied    = errors.New("geolocation permission denied")
	ErrPositionUnavailable = errors.New("geolocation position unavailable")
	ErrTimeout             = errors.New("geolocation timed out")
	ErrUnsupported         = errors.New("geolocation not supported")
)

// Error codes reported by the browser Geolocation API.
const (
	CodePermissionDenied    = 1
	CodePositionUnavailable = 2
	CodeTimeout             = 3
)

type Position struct {
	Latitude  float64
	Longitude float64
}

func (p Position) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}

type PositionOptions struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	MaximumAge         time.Duration // 0 always requests a fresh fix
}

// DefaultOptions is a single high-accuracy attempt with a 15 second timeout
// and no cached positions.
var DefaultOptions = PositionOptions{
	EnableHighAccuracy: true,
	Timeout:            15 * time.Second,
	MaximumAge:         0,
}

// Geolocator yields the current device position.
type Geolocator interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error)
}

// Request performs one position request bounded by opts.Timeout. A deadline
// is reported as ErrTimeout.
func Request(ctx context.Context, g Geolocator, opts PositionOptions) (Position, error) {
	if g == nil {
		return Position{}, ErrUnsupported
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	pos, err := g.CurrentPosition(ctx, opts)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Position{}, ErrTimeout
		}
		return Position{}, err
	}
	if !pos.Valid() {
		return Position{}, fmt.Errorf("%w: invalid coordinates %v,%v", ErrPositionUnavailable, pos.Latitude, pos.Longitude)
	}
	return pos, nil
}

// Static always reports the same position, e.g. from configuration.
type Static Position

func (s Static) CurrentPosition(ctx context.Context, _ PositionOptions) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	return Position(s), nil
}

// Reported is the outcome of a position request made by the page's
// JavaScript and posted back to the server.
type Reported struct {
	Position Position
	Code     int // 0 on success, otherwise a browser error code
}

func (r Reported) CurrentPosition(ctx context.Context, _ PositionOptions) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	if err := ErrorFromCode(r.Code); err != nil {
		return Position{}, err
	}
	return r.Position, nil
}

// ErrorFromCode maps a browser geolocation error code to an error. Code 0 is
// success; unrecognised codes are treated as unavailable.
func ErrorFromCode(code int) error {
	switch code {
	case 0:
		return nil
	case CodePermissionDenied:
		return ErrPermissionDenied
	case CodeTimeout:
		return ErrTimeout
	default:
		return ErrPositionUnavailable
	}
}
