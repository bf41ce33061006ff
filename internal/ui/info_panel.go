package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-celestial/internal/astro"
	"github.com/litescript/ls-celestial/internal/locale"
	"github.com/litescript/ls-celestial/internal/state"
)

// Panel styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("60"))

	runningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("57")).
			Padding(0, 1)
)

// InfoPanelModel shows the clock, the current selection and the render
// parameters, with a collapsible details section for the selected body.
type InfoPanelModel struct {
	f           *locale.Formatter
	width       int
	st          state.State
	now         time.Time
	showDetails bool
}

// NewInfoPanelModel creates an info panel using f for display text.
func NewInfoPanelModel(f *locale.Formatter) InfoPanelModel {
	return InfoPanelModel{f: f, showDetails: true}
}

// SetWidth sets the outer panel width.
func (m InfoPanelModel) SetWidth(width int) InfoPanelModel {
	m.width = width
	return m
}

// UpdateData replaces the displayed state.
func (m InfoPanelModel) UpdateData(st state.State) InfoPanelModel {
	m.st = st
	return m
}

// SetTime sets the displayed clock.
func (m InfoPanelModel) SetTime(now time.Time) InfoPanelModel {
	m.now = now
	return m
}

// ToggleDetails collapses or expands the details section.
func (m InfoPanelModel) ToggleDetails() InfoPanelModel {
	m.showDetails = !m.showDetails
	return m
}

// ShowDetails reports whether the details section is expanded.
func (m InfoPanelModel) ShowDetails() bool {
	return m.showDetails
}

// View renders the panel.
func (m InfoPanelModel) View() string {
	f := m.f
	var b strings.Builder

	row := func(k locale.Key, v string) {
		b.WriteString(labelStyle.Render(f.Label(k)+": ") + valueStyle.Render(v) + "\n")
	}

	b.WriteString(titleStyle.Render(f.Label(locale.LiveInfo)) + "\n")
	b.WriteString(accentStyle.Render(f.Time(m.now)) + "\n")
	b.WriteString(dimStyle.Render(f.Date(m.now)) + "\n\n")

	row(locale.Perspective, f.Perspective(m.st.ViewPerspective))
	row(locale.SelectedBody, f.Body(m.st.Selected))
	b.WriteString(dimStyle.Render(f.Description(m.st.Selected)) + "\n\n")

	b.WriteString(sectionStyle.Render(f.Label(locale.RenderParams)) + "\n")
	row(locale.Radius, f.Decimal(m.st.RadiusMultiplier, 5))
	row(locale.Speed, f.Decimal(m.st.SpeedMultiplier, 0)+"x")
	row(locale.JulianDay, fmt.Sprintf("%.5f", astro.JulianDay(m.now)))

	marker := "▸"
	if m.showDetails {
		marker = "▾"
	}
	b.WriteString("\n" + sectionStyle.Render(marker+" "+f.Label(locale.Details)) + dimStyle.Render(" [i]") + "\n")
	if m.showDetails {
		info := m.st.Physical(m.st.Selected).Info
		row(locale.Mass, info.Mass)
		row(locale.RealRadius, info.RealRadius)
		row(locale.OrbitalPeriod, info.OrbitalPeriod)
		row(locale.RotationPeriod, info.RotationPeriod)
		row(locale.OrbitalRadius, info.OrbitalRadius)
		row(locale.Temperature, info.SurfaceTemperature)
	}

	b.WriteString("\n" + runningStyle.Render("● ") + dimStyle.Render(f.Label(locale.Running)))

	style := panelStyle
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}
	return style.Render(b.String())
}
