// Command perfcalc reads the Aquila take-off and landing distance charts from
// the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"

	"github.com/signalsfoundry/aquila-performance/core"
	"github.com/signalsfoundry/aquila-performance/internal/logging"
	"github.com/signalsfoundry/aquila-performance/internal/planner"
	"github.com/signalsfoundry/aquila-performance/model"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, logging.NewFromEnv()); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

type options struct {
	conditions planner.Conditions
	massKg     float64
	landingKg  float64
	sweep      bool
	stepFt     float64
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	var (
		o   options
		dir string
	)
	fs := flag.NewFlagSet("perfcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Float64Var(&o.conditions.OATCelsius, "oat", 15, "outside air temperature (°C)")
	fs.Float64Var(&o.conditions.PressureAltitudeFt, "pa", 0, "pressure altitude (ft)")
	fs.Float64Var(&o.massKg, "mass", 750, "take-off mass (kg)")
	fs.Float64Var(&o.landingKg, "landing-mass", 0, "landing mass (kg); defaults to -mass")
	fs.Float64Var(&o.conditions.WindSpeedKt, "wind", 0, "wind component (kt)")
	fs.StringVar(&dir, "dir", "headwind", "headwind or tailwind")
	fs.BoolVar(&o.sweep, "sweep", false, "print distances over the whole pressure altitude range")
	fs.Float64Var(&o.stepFt, "step", 1000, "sweep step (ft)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	var err error
	if o.conditions.WindDirection, err = model.ParseWindDirection(dir); err != nil {
		return o, err
	}
	landingSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "landing-mass" {
			landingSet = true
		}
	})
	if !landingSet {
		o.landingKg = o.massKg
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout io.Writer, log logging.Logger) error {
	o, err := parseOptions(args, stdout)
	if err != nil {
		return err
	}
	p := planner.New(log, nil)

	if o.sweep {
		rows, err := p.Sweep(ctx, o.conditions, o.massKg, o.landingKg, o.stepFt)
		if err != nil {
			return err
		}
		return printTable(stdout, sweepTable(rows))
	}

	tod, err := p.Compute(ctx, core.ChartTakeoff, o.conditions.Input(o.massKg))
	if err != nil {
		return err
	}
	ldr, err := p.Compute(ctx, core.ChartLanding, o.conditions.Input(o.landingKg))
	if err != nil {
		return err
	}
	c := o.conditions
	fmt.Fprintln(stdout, pterm.DefaultSection.Sprintf("%.0f °C, %.0f ft, %.0f kg, %.0f kt %s",
		c.OATCelsius, c.PressureAltitudeFt, o.massKg, c.WindSpeedKt, c.WindDirection))
	return printTable(stdout, resultTable(tod, ldr))
}

func resultTable(tod, ldr model.PerformanceResult) pterm.TableData {
	f := func(v float64) string { return fmt.Sprintf("%.1f", v) }
	return pterm.TableData{
		{"", "Take-off", "Landing"},
		{"OAT x", f(tod.OATX), f(ldr.OATX)},
		{"OAT y", f(tod.OATY), f(ldr.OATY)},
		{"Mass x", f(tod.MassX), f(ldr.MassX)},
		{"Mass y", f(tod.MassY), f(ldr.MassY)},
		{"Wind x", f(tod.WindX), f(ldr.WindX)},
		{"Wind y", f(tod.WindY), f(ldr.WindY)},
		{"Obstacle y", f(tod.ObstacleY), f(ldr.ObstacleY)},
		{"Ground roll (m)", fmt.Sprintf("%.0f", tod.GroundRollM), fmt.Sprintf("%.0f", ldr.GroundRollM)},
		{"Over 50 ft (m)", fmt.Sprintf("%.0f", tod.TotalDistanceM), fmt.Sprintf("%.0f", ldr.TotalDistanceM)},
	}
}

func sweepTable(rows []planner.SweepRow) pterm.TableData {
	data := pterm.TableData{{"PA (ft)", "TOD roll", "TOD 50 ft", "LDR roll", "LDR 50 ft"}}
	for _, r := range rows {
		data = append(data, []string{
			fmt.Sprintf("%.0f", r.PressureAltitudeFt),
			fmt.Sprintf("%.0f", r.Takeoff.GroundRollM),
			fmt.Sprintf("%.0f", r.Takeoff.TotalDistanceM),
			fmt.Sprintf("%.0f", r.Landing.GroundRollM),
			fmt.Sprintf("%.0f", r.Landing.TotalDistanceM),
		})
	}
	return data
}

func printTable(w io.Writer, data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
