package ui

import (
	"strings"

	"github.com/litescript/ls-celestial/internal/render"
	"github.com/litescript/ls-celestial/internal/state"
)

// ViewerModel draws the focused body and the starfield.
type ViewerModel struct {
	renderer *render.Renderer
	width    int
	height   int
}

// NewViewerModel creates a viewer.
func NewViewerModel() ViewerModel {
	return ViewerModel{renderer: render.NewRenderer()}
}

// SetSize updates the canvas size in terminal cells.
func (m ViewerModel) SetSize(width, height int) ViewerModel {
	m.width = max(width, 0)
	m.height = max(height, 0)
	return m
}

// View renders root as seen from st's perspective. Each terminal row holds
// two pixel rows.
func (m ViewerModel) View(root render.Objects, st state.State) string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	img := m.renderer.Render(root, render.View{
		Width:       m.width,
		Height:      m.height * 2,
		Focus:       st.Selected,
		Perspective: st.ViewPerspective,
		FovDeg:      st.Camera.CameraFov,
		Starfield:   st.Starfield,
	})
	return strings.Join(img.Lines(), "\n")
}
