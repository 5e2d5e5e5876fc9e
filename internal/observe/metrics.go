package observe

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/san-kum/hydrodrag/internal/observe"

// Metrics records engine events as OpenTelemetry instruments. Without a
// configured global provider every instrument is a no-op.
type Metrics struct {
	tables    metric.Int64Counter
	failures  metric.Int64Counter
	premature metric.Int64Counter
	clamps    metric.Int64Counter
	drag      metric.Float64Histogram
	draft     metric.Float64Histogram
}

// NewMetrics creates the instruments on m, or on the global meter when m
// is nil.
func NewMetrics(m metric.Meter) (*Metrics, error) {
	if m == nil {
		m = otel.Meter(instrumentationName)
	}

	var (
		mt  Metrics
		err error
	)

	mt.tables, err = m.Int64Counter(
		"hydrodrag.tables.built",
		metric.WithDescription("Hydrostatic tables built"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tables counter: %w", err)
	}

	mt.failures, err = m.Int64Counter(
		"hydrodrag.tables.failed",
		metric.WithDescription("Hydrostatic table builds that found no hull"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failures counter: %w", err)
	}

	mt.premature, err = m.Int64Counter(
		"hydrodrag.tables.premature_queries",
		metric.WithDescription("Table queries made before the table was built"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating premature query counter: %w", err)
	}

	mt.clamps, err = m.Int64Counter(
		"hydrodrag.filter.clamped",
		metric.WithDescription("Samples replaced by an outlier filter"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating clamp counter: %w", err)
	}

	mt.drag, err = m.Float64Histogram(
		"hydrodrag.drag",
		metric.WithDescription("Clamped longitudinal drag per step"),
		metric.WithUnit("N"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating drag histogram: %w", err)
	}

	mt.draft, err = m.Float64Histogram(
		"hydrodrag.draft",
		metric.WithDescription("Smoothed draft per step"),
		metric.WithUnit("m"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating draft histogram: %w", err)
	}

	return &mt, nil
}

func (m *Metrics) TableBuilt(e TableEvent) {
	attrs := metric.WithAttributes(attribute.String("mask", e.Mask))
	if e.Err != nil {
		m.failures.Add(context.Background(), 1, attrs)
		return
	}
	m.tables.Add(context.Background(), 1, attrs)
}

func (m *Metrics) PrematureQuery(e QueryEvent) {
	m.premature.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("state", e.State)))
}

func (m *Metrics) FilterClamped(e ClampEvent) {
	m.clamps.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("filter", e.Filter)))
}

func (m *Metrics) ForceComputed(e ForceEvent) {
	attrs := metric.WithAttributes(
		attribute.String("class", e.Class),
		attribute.Bool("table", e.TableUsed),
	)
	m.drag.Record(context.Background(), e.ClampedDrag, attrs)
	m.draft.Record(context.Background(), e.Draft, attrs)
}
