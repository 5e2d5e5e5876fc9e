package observe

import (
	"errors"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/san-kum/hydrodrag/internal/entity"
)

func TestMultiFansOut(t *testing.T) {
	var a, b Recorder
	m := Multi{&a, &b, Nop{}}

	h := entity.Handle{ID: 1, Gen: 1}
	m.TableBuilt(TableEvent{Vessel: h})
	m.PrematureQuery(QueryEvent{Vessel: h, Station: 2})
	m.FilterClamped(ClampEvent{Filter: "force", Raw: 10, Clamped: 2})
	m.ForceComputed(ForceEvent{Vessel: h, Draft: 1})

	for _, r := range []*Recorder{&a, &b} {
		if len(r.Tables) != 1 || len(r.Queries) != 1 || len(r.Clamps) != 1 || len(r.Forces) != 1 {
			t.Errorf("expected one event of each kind, got %d/%d/%d/%d",
				len(r.Tables), len(r.Queries), len(r.Clamps), len(r.Forces))
		}
	}

	a.Reset()
	if len(a.Tables)+len(a.Queries)+len(a.Clamps)+len(a.Forces) != 0 {
		t.Error("reset left events behind")
	}
}

func TestOrNop(t *testing.T) {
	if _, ok := OrNop(nil).(Nop); !ok {
		t.Error("nil observer should become Nop")
	}
	r := &Recorder{}
	if OrNop(r) != r {
		t.Error("non-nil observer should pass through")
	}
}

func TestMetricsWithNoopMeter(t *testing.T) {
	m, err := NewMetrics(noop.Meter{})
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	m.TableBuilt(TableEvent{Mask: "hull"})
	m.TableBuilt(TableEvent{Err: errors.New("no hull")})
	m.PrematureQuery(QueryEvent{State: "empty"})
	m.FilterClamped(ClampEvent{Filter: "velocity"})
	m.ForceComputed(ForceEvent{Class: "BOAT test", Draft: 1.2, ClampedDrag: -40})
}

func TestMetricsGlobalMeter(t *testing.T) {
	if _, err := NewMetrics(nil); err != nil {
		t.Fatalf("NewMetrics(nil): %v", err)
	}
}
