package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/hydrodrag/internal/hydrostatics"
	"github.com/san-kum/hydrodrag/internal/sim"
)

type ExportData struct {
	Vessel   string             `json:"vessel"`
	Class    string             `json:"class"`
	Mass     float64            `json:"mass"`
	Steps    int                `json:"steps"`
	Columns  []string           `json:"columns"`
	Rows     [][]string         `json:"rows"`
	Metrics  map[string]float64 `json:"metrics"`
	Warnings []string           `json:"warnings,omitempty"`
}

func ExportJSON(w io.Writer, result *sim.Result) error {
	data := ExportData{
		Vessel:  result.Vessel,
		Class:   result.Class,
		Mass:    result.Mass,
		Steps:   result.StepsTaken,
		Columns: TraceColumns,
		Rows:    make([][]string, len(result.Samples)),
		Metrics: result.Metrics,
	}
	for i, s := range result.Samples {
		data.Rows[i] = traceRow(s)
	}
	for _, err := range result.Errors {
		data.Warnings = append(data.Warnings, err.Error())
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteTableCSV writes every station of a built table, one row per height
// step: station, z, draft, wetted_area, volume.
func WriteTableCSV(w io.Writer, t *hydrostatics.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"station", "z", "draft", "wetted_area", "volume"}); err != nil {
		return err
	}
	for st := 0; st < hydrostatics.Stations; st++ {
		for hi := 0; hi <= hydrostatics.HeightSegments; hi++ {
			draft := t.Span() * float64(hi) / hydrostatics.HeightSegments
			v, ok := t.GetValues(st, draft)
			if !ok {
				return hydrostatics.ErrInvalidState
			}
			if err := cw.Write([]string{
				strconv.Itoa(st),
				strconv.FormatFloat(t.StationZ(st), 'f', 4, 64),
				strconv.FormatFloat(draft, 'f', 4, 64),
				strconv.FormatFloat(v.WettedArea, 'f', 6, 64),
				strconv.FormatFloat(v.Volume, 'f', 6, 64),
			}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
