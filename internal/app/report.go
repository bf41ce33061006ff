package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-celestial/internal/astro"
	"github.com/litescript/ls-celestial/internal/locale"
	"github.com/litescript/ls-celestial/internal/state"
)

// WriteSummary prints the info panel as plain text.
func WriteSummary(w io.Writer, st state.State, f *locale.Formatter, now time.Time) {
	fmt.Fprintf(w, "%s @ %s %s\n", f.Label(locale.LiveInfo), f.Date(now), f.Time(now))
	fmt.Fprintln(w, strings.Repeat("─", 48))

	row := func(k locale.Key, v string) {
		fmt.Fprintf(w, "%-20s %s\n", f.Label(k)+":", v)
	}
	row(locale.Time, f.Time(now))
	row(locale.Perspective, f.Perspective(st.ViewPerspective))
	row(locale.SelectedBody, f.Body(st.Selected)+"  "+f.Description(st.Selected))
	row(locale.JulianDay, fmt.Sprintf("%.5f", astro.JulianDay(now)))

	fmt.Fprintf(w, "\n%s\n", f.Label(locale.RenderParams))
	row(locale.Radius, f.Decimal(st.RadiusMultiplier, 5))
	row(locale.Speed, f.Decimal(st.SpeedMultiplier, 0))

	info := st.Physical(st.Selected).Info
	fmt.Fprintf(w, "\n%s\n", f.Label(locale.Details))
	row(locale.Mass, info.Mass)
	row(locale.RealRadius, info.RealRadius)
	row(locale.OrbitalPeriod, info.OrbitalPeriod)
	row(locale.RotationPeriod, info.RotationPeriod)
	row(locale.OrbitalRadius, info.OrbitalRadius)
	row(locale.Temperature, info.SurfaceTemperature)
}

// WriteRotations prints each controller's status and spin.
func (a *App) WriteRotations(w io.Writer, f *locale.Formatter) {
	fmt.Fprintf(w, "frames: %d, scene objects: %d\n", a.Scheduler.Frames(), a.Root.Len())
	for _, c := range a.controllers {
		rot := c.Rotation()
		fmt.Fprintf(w, "%-6s %-6s %-9s %9.4f rad %8.2f°\n",
			c.Body(), f.Body(c.Body()), c.Status(), rot, astro.RadToDeg(rot))
	}
}
