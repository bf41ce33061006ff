package ui

import (
	"strings"

	"github.com/litescript/ls-celestial/internal/locale"
	"github.com/litescript/ls-celestial/internal/state"
)

// debugLines caps the YAML dump so the panel fits beside the viewer.
const debugLines = 24

// DebugPanelModel shows the live configuration as YAML.
type DebugPanelModel struct {
	f      *locale.Formatter
	width  int
	height int
	dump   string
	err    error
}

// NewDebugPanelModel creates a debug panel.
func NewDebugPanelModel(f *locale.Formatter) DebugPanelModel {
	return DebugPanelModel{f: f}
}

// SetSize sets the outer panel size. A non-positive height uses the
// default line cap.
func (m DebugPanelModel) SetSize(width, height int) DebugPanelModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData refreshes the dump from store.
func (m DebugPanelModel) UpdateData(store *state.Store) DebugPanelModel {
	data, err := store.Dump()
	m.dump, m.err = string(data), err
	return m
}

// View renders the panel.
func (m DebugPanelModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.f.Label(locale.Debug)) + "\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
	} else {
		limit := debugLines
		if m.height > 3 {
			limit = m.height - 3
		}
		lines := strings.Split(strings.TrimRight(m.dump, "\n"), "\n")
		if len(lines) > limit {
			lines = append(lines[:limit-1], "…")
		}
		b.WriteString(dimStyle.Render(strings.Join(lines, "\n")))
	}

	style := panelStyle
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}
	return style.Render(b.String())
}
