package geo

import (
	"context"
	"errors"
	"time"

	"taskmaster-tui/internal/model"
)

// Position failure taxonomy. Each maps to a distinct user-facing
// message in the UI.
var (
	// ErrPermissionDenied is returned when the position source exists
	// but refuses access.
	ErrPermissionDenied = errors.New("geo: access to position denied")

	// ErrUnavailable is returned when no position can be determined.
	ErrUnavailable = errors.New("geo: position unavailable")

	// ErrUnsupported is returned when no position source is configured.
	ErrUnsupported = errors.New("geo: positioning not supported")
)

// Position is a single geolocation reading in decimal degrees.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Provider supplies the current position. Current blocks until a
// reading is available, the context expires (timeout), or the source
// fails. Watch delivers a stream of readings on the returned channel
// and closes it when the context is canceled; it is the caller's
// teardown handle for the subscription.
type Provider interface {
	Current(ctx context.Context) (Position, error)
	Watch(ctx context.Context) (<-chan Position, error)
}

// ConfigProvider serves the position fixed in the application config.
// Watch re-emits that position on the configured interval so the
// nearest-location match is re-evaluated like a live stream would be.
type ConfigProvider struct {
	cfg model.GeoConfig
}

// NewConfigProvider creates a provider backed by the geo section of the
// application config.
func NewConfigProvider(cfg model.GeoConfig) *ConfigProvider {
	return &ConfigProvider{cfg: cfg}
}

// Current returns the configured position, or ErrUnsupported when no
// coordinates are configured.
func (p *ConfigProvider) Current(ctx context.Context) (Position, error) {
	if !p.cfg.Enabled {
		return Position{}, ErrUnsupported
	}
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	return Position{Latitude: p.cfg.Latitude, Longitude: p.cfg.Longitude}, nil
}

// Watch emits the configured position immediately and then on every
// watch interval until ctx is canceled.
func (p *ConfigProvider) Watch(ctx context.Context) (<-chan Position, error) {
	if !p.cfg.Enabled {
		return nil, ErrUnsupported
	}

	interval := time.Duration(p.cfg.WatchIntervalSec) * time.Second
	if interval <= 0 {
		interval = 60 * time.Second
	}

	ch := make(chan Position, 1)
	pos := Position{Latitude: p.cfg.Latitude, Longitude: p.cfg.Longitude}

	go func() {
		defer close(ch)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		ch <- pos
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case ch <- pos:
				default:
					// Consumer is behind; drop rather than block.
				}
			}
		}
	}()

	return ch, nil
}

// FailureMessage maps a position error to the message shown inline in
// the owning view.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "Access to your position was denied"
	case errors.Is(err, ErrUnavailable):
		return "Your position is unavailable"
	case errors.Is(err, ErrUnsupported):
		return "Positioning is not configured; set geo.latitude/longitude in the config"
	case errors.Is(err, context.DeadlineExceeded):
		return "Timed out reading your position"
	default:
		return "Failed to read your position"
	}
}
