package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hydrodrag/internal/config"
	"github.com/san-kum/hydrodrag/internal/entity"
	"github.com/san-kum/hydrodrag/internal/geom"
	"github.com/san-kum/hydrodrag/internal/hydrostatics"
	"github.com/san-kum/hydrodrag/internal/probe"
	"github.com/san-kum/hydrodrag/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Vessel: "cog",
		Class:  "BOAT medi small (40)",
		Mass:   50840,
		Samples: []sim.Sample{
			{Time: 0.02, Position: mgl64.Vec3{0, 0.5, 0.01}, Speed: 0.5, Draft: 1, TableUsed: true, WaterSampled: true},
			{Time: 0.04, Position: mgl64.Vec3{0, 0.5, 0.02}, Speed: 0.6, Draft: 1, Drag: -12.5, TableUsed: true},
		},
		StepsTaken: 2,
		Metrics:    map[string]float64{"top_speed": 0.6},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Seed = 42
	runID, err := st.Save(cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "cog_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Vessel != "cog" || meta.Class != "BOAT medi small (40)" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Metrics["top_speed"] != 0.6 {
		t.Errorf("expected top_speed 0.6, got %f", meta.Metrics["top_speed"])
	}

	header, rows, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if len(header) != len(TraceColumns) {
		t.Errorf("expected %d columns, got %d", len(TraceColumns), len(header))
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	drag, err := Column(header, rows, "drag")
	if err != nil {
		t.Fatal(err)
	}
	if drag[1] != -12.5 {
		t.Errorf("expected drag -12.5, got %v", drag[1])
	}
	water, _ := Column(header, rows, "water")
	if water[0] != 1 || water[1] != 0 {
		t.Errorf("water flags = %v", water)
	}
	if _, err := Column(header, rows, "nope"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := st.Save(config.DefaultConfig(), testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	// stray files are ignored
	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	result := testResult()
	result.Errors = []error{errors.New("step 3 (t=0.0600): invalid state (NaN/Inf)")}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, result); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Steps != 2 || len(data.Rows) != 2 {
		t.Errorf("expected 2 steps and rows, got %d and %d", data.Steps, len(data.Rows))
	}
	if len(data.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", data.Warnings)
	}
}

func TestWriteTableCSV(t *testing.T) {
	reg := entity.NewRegistry()
	ship := reg.Create("box")
	scene := probe.NewScene()
	scene.AddBox(probe.Box{
		Collider:    probe.Collider{Body: ship},
		HalfExtents: mgl64.Vec3{1, 1, 2},
	})

	table, err := hydrostatics.Build(probe.NewProber(scene), geom.Identity(), ship)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteTableCSV(&buf, table); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	want := 1 + hydrostatics.Stations*(hydrostatics.HeightSegments+1)
	if len(records) != want {
		t.Errorf("expected %d records, got %d", want, len(records))
	}

	empty := hydrostatics.New(ship, probe.Extents{})
	if err := WriteTableCSV(&bytes.Buffer{}, empty); !errors.Is(err, hydrostatics.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}
