package observe

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Log writes events to a zerolog logger. Per-step forces are logged at
// debug level every Period steps per logger; zero means every step.
type Log struct {
	logger zerolog.Logger
	Period int
	steps  atomic.Uint64
}

func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger.With().Str("component", "hydrodrag").Logger()}
}

func (l *Log) TableBuilt(e TableEvent) {
	if e.Err != nil {
		l.logger.Warn().
			Err(e.Err).
			Str("vessel", e.Vessel.String()).
			Str("name", e.Name).
			Str("state", e.State).
			Msg("hydrostatic tables unavailable, using fallback formulas")
		return
	}
	l.logger.Info().
		Str("vessel", e.Vessel.String()).
		Str("name", e.Name).
		Str("mask", e.Mask).
		Int("hits", e.Hits).
		Float64("displacement_m3", e.Displacement).
		Float64("wetted_area_m2", e.WettedArea).
		Msg("hydrostatic tables built")
}

func (l *Log) PrematureQuery(e QueryEvent) {
	l.logger.Warn().
		Str("vessel", e.Vessel.String()).
		Str("name", e.Name).
		Int("station", e.Station).
		Str("state", e.State).
		Msg("hydrostatic table queried before it was built")
}

func (l *Log) FilterClamped(e ClampEvent) {
	l.logger.Debug().
		Str("filter", e.Filter).
		Str("vessel", e.Vessel.String()).
		Float64("raw", e.Raw).
		Float64("clamped", e.Clamped).
		Msg("outlier clamped")
}

func (l *Log) ForceComputed(e ForceEvent) {
	n := l.steps.Add(1)
	if l.Period > 1 && n%uint64(l.Period) != 0 {
		return
	}
	l.logger.Debug().
		Str("vessel", e.Vessel.String()).
		Str("class", e.Class).
		Float64("draft_m", e.Draft).
		Float64("displacement_m3", e.Displacement).
		Float64("wetted_area_m2", e.WettedArea).
		Float64("forward_velocity", e.ForwardVelocity).
		Float64("drag_n", e.Drag).
		Float64("clamped_drag_n", e.ClampedDrag).
		Float64("buoyancy_n", e.Buoyancy).
		Bool("table", e.TableUsed).
		Msg("forces computed")
}
