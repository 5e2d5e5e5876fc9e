package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hydrodrag/internal/config"
	"github.com/san-kum/hydrodrag/internal/drag"
	"github.com/san-kum/hydrodrag/internal/entity"
	"github.com/san-kum/hydrodrag/internal/geom"
	"github.com/san-kum/hydrodrag/internal/hydrostatics"
	"github.com/san-kum/hydrodrag/internal/performance"
	"github.com/san-kum/hydrodrag/internal/probe"
	"github.com/san-kum/hydrodrag/internal/sim"
	"github.com/san-kum/hydrodrag/internal/storage"
	"github.com/san-kum/hydrodrag/internal/viz"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
)

func field(label, format string, args ...any) {
	fmt.Println(labelStyle.Render(label) + fmt.Sprintf(format, args...))
}

func showTable(cmd *cobra.Command, args []string) error {
	hull, err := sim.LookupHull(args[0])
	if err != nil {
		return err
	}

	reg := entity.NewRegistry()
	scene := probe.NewScene()
	body := reg.Create(hull.Class)
	hull.Place(scene, body)

	table, err := hydrostatics.Build(probe.NewProber(scene), geom.Identity(), body,
		hydrostatics.WithName(hull.Class),
		hydrostatics.WithSpan(current.engine.Span),
		hydrostatics.WithObserver(current.observer),
	)
	if err != nil {
		return err
	}

	if csvOut {
		return storage.WriteTableCSV(os.Stdout, table)
	}

	sum := table.Summary()
	fmt.Println(titleStyle.Render(hull.Name + "  " + hull.Class))
	field("state", "%s", sum.State)
	field("mask", "%s", sum.Mask)
	field("grid hits", "%d", sum.Hits)
	field("length", "%.2f m", sum.Length)
	field("keel", "%.2f m", sum.Keel)
	field("max beam", "%.2f m", sum.MaxBeam)
	field("wetted area", "%.2f m² (one side, full span)", sum.WettedArea)
	field("volume", "%.2f m³ (one side, full span)", sum.Volume)

	if probes, ok := table.ProbePositions(); ok {
		fmt.Println()
		fmt.Println(titleStyle.Render("force points"))
		for i, p := range probes {
			fmt.Printf("  %2d  x=%6.2f  z=%6.2f\n", i, p.X(), p.Z())
		}
	}

	drafts, areas, volumes := table.Curve()
	fmt.Println()
	fmt.Println(viz.PlotMany([][]float64{areas, volumes},
		fmt.Sprintf("wetted area (green) and volume (yellow) vs draft, 0-%.1f m", drafts[len(drafts)-1]), 60, 12))

	if svgOut != "" {
		return writeFile(svgOut, func(w io.Writer) error { return profileSVG(w, hull) })
	}
	return nil
}

// profileSVG draws hull floating at its design draft on calm water.
func profileSVG(w io.Writer, hull sim.Hull) error {
	const cols, rows = 60, 16
	c := viz.NewCanvas(cols, rows)
	pos := mgl64.Vec3{0, hull.RestHeight(), 0}
	scale := float64(cols*2) / (4 * hull.HalfExtents.Z())
	viz.DrawProfile(c, viz.Viewport{Scale: scale},
		func(mgl64.Vec3) float64 { return 0 }, pos, hull.HalfExtents)
	return viz.WriteCanvasSVG(w, c, 4)
}

// dragInput picks the displacement and wetted area the curve is drawn at:
// the design point of a synthetic hull of that class, or a generic hull
// at 1 m draft.
func dragInput(params performance.Parameters, lwl float64) drag.Input {
	for _, name := range sim.HullNames() {
		hull, _ := sim.LookupHull(name)
		if performance.NormalizeName(hull.Class) != params.Class {
			continue
		}
		hx, hz, d := hull.HalfExtents.X(), hull.HalfExtents.Z(), hull.DesignDraft
		return drag.Input{
			WaterlineLength: lwl,
			FormFactor:      params.FormFactor,
			Displacement:    4 * hx * hz * d,
			WettedArea:      4*hx*hz + 4*hz*d + 4*hx*d,
		}
	}
	const draft = 1.0
	displacement := draft * params.BaseBuoyancy
	return drag.Input{
		WaterlineLength: lwl,
		FormFactor:      params.FormFactor,
		Displacement:    displacement,
		WettedArea:      drag.EstimateWettedArea(lwl, draft, displacement),
	}
}

func showDrag(cmd *cobra.Command, args []string) error {
	if points < 2 || maxSpeed <= 0 {
		return fmt.Errorf("need at least 2 points and a positive max speed")
	}

	params := current.resolver.Resolve(args[0])
	lwl := params.WaterlineLength * current.engine.LengthMultiplier
	in := dragInput(params, lwl)

	speeds := make([]float64, points)
	viscous := make([]float64, points)
	wave := make([]float64, points)
	total := make([]float64, points)
	for i := range speeds {
		in.AbsVelocity = maxSpeed * float64(i+1) / float64(points)
		b := drag.Evaluate(in, params.Functions(), params.Multipliers(), current.engine.Global)
		speeds[i], viscous[i], wave[i], total[i] = in.AbsVelocity, b.Viscous, b.WaveMaking, b.Total
	}

	if csvOut {
		w := csv.NewWriter(os.Stdout)
		if err := w.Write([]string{"speed", "froude", "viscous", "wave_making", "total"}); err != nil {
			return err
		}
		for i, v := range speeds {
			row := []string{
				strconv.FormatFloat(v, 'f', 4, 64),
				strconv.FormatFloat(drag.Froude(v, lwl), 'f', 4, 64),
				strconv.FormatFloat(viscous[i], 'f', 3, 64),
				strconv.FormatFloat(wave[i], 'f', 3, 64),
				strconv.FormatFloat(total[i], 'f', 3, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	}

	fmt.Println(titleStyle.Render(params.Class))
	fmt.Println(labelStyle.Render("parameters") + params.String())
	field("displacement", "%.2f m³", in.Displacement)
	field("wetted area", "%.2f m²", in.WettedArea)
	fmt.Println()
	fmt.Println(viz.PlotMany([][]float64{viscous, wave, total},
		fmt.Sprintf("viscous (green), wave-making (yellow), total (red) in N, 0-%.1f m/s", maxSpeed), 70, 15))
	return nil
}

func resolveClasses(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		seen := map[string]bool{}
		for _, name := range performance.KnownClasses() {
			seen[name] = true
		}
		for name := range current.store.User() {
			seen[name] = true
		}
		for name := range seen {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CLASS\tLWL\tFF\tVISC\tWAVE\tBUOY\tMASS\tBASE\tSOURCE")
	for _, name := range names {
		p := current.resolver.Resolve(name)
		fmt.Fprintf(w, "%s\t%.2f\t%.3f\t%.2f\t%.2f\t%.2f\t%.2f\t%.1f\t%s\n",
			p.Class, p.WaterlineLength, p.FormFactor,
			p.ViscousMultiplier, p.WaveMakingMultiplier,
			p.BuoyancyMultiplier, p.MassMultiplier, p.BaseBuoyancy,
			source(p.Class))
	}
	return w.Flush()
}

func source(class string) string {
	user, custom, def := current.store.Tiers(class)
	var tiers []string
	if !user.IsZero() {
		tiers = append(tiers, "user")
	}
	if !custom.IsZero() {
		tiers = append(tiers, "custom")
	}
	if !def.IsZero() {
		tiers = append(tiers, "builtin")
	}
	if len(tiers) == 0 {
		return "generic"
	}
	return strings.Join(tiers, ">")
}

func initConfig(cmd *cobra.Command, args []string) error {
	settingsPath := filepath.Join(configDir, config.SettingsName+".yaml")
	err := config.WriteDefaultSettings(settingsPath)
	var exists viper.ConfigFileAlreadyExistsError
	switch {
	case errors.As(err, &exists):
		fmt.Printf("kept existing %s\n", settingsPath)
	case err != nil:
		return err
	default:
		fmt.Printf("wrote %s\n", settingsPath)
	}

	shipPath := current.settings.ShipDataPath
	if !filepath.IsAbs(shipPath) {
		shipPath = filepath.Join(configDir, shipPath)
	}
	_, created, err := config.LoadShipData(shipPath)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("wrote %s\n", shipPath)
	} else {
		fmt.Printf("kept existing %s\n", shipPath)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	vessels := args
	if len(vessels) == 0 {
		vessels = sim.HullNames()
	}
	for _, vessel := range vessels {
		presets := config.ListPresets(vessel)
		if len(presets) == 0 {
			fmt.Printf("no presets for vessel: %s\n", vessel)
			continue
		}
		class := ""
		if hull, err := sim.LookupHull(vessel); err == nil {
			class = " (" + hull.Class + ")"
		}
		fmt.Printf("presets for %s%s:\n", vessel, class)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}
