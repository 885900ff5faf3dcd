// Package preview draws trackview render commands with Ebitengine.
//
// Comment overlays are rasterised with the Ebitengine debug font into cached
// offscreen images and placed with each command's affine transform:
//
//	rc := trackview.NewRenderContext(trackview.Rect{Width: 640, Height: 480})
//	seq.Render(rc)
//	overlay.Draw(screen, rc.Sorted())
package preview

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/trackview"
)

// Debug font glyph metrics of ebitenutil.DebugPrint.
const (
	glyphWidth  = 6
	glyphHeight = 16
)

// Overlay draws comment commands. The zero value is ready to use.
type Overlay struct {
	cache map[string]*ebiten.Image
	op    ebiten.DrawImageOptions
}

// Draw renders cmds onto dst in slice order.
func (o *Overlay) Draw(dst *ebiten.Image, cmds []trackview.RenderCommand) {
	for i := range cmds {
		cmd := &cmds[i]
		if cmd.Type != trackview.CommandText || cmd.Text == "" {
			continue
		}
		img := o.textImage(cmd.Text)

		o.op.GeoM.Reset()
		o.op.GeoM.Translate(alignOffset(cmd.Text, cmd.Align), 0)
		o.op.GeoM.Concat(CommandGeoM(cmd))

		o.op.ColorScale.Reset()
		a := float32(cmd.Color.A)
		o.op.ColorScale.Scale(float32(cmd.Color.R)*a, float32(cmd.Color.G)*a, float32(cmd.Color.B)*a, a)
		dst.DrawImage(img, &o.op)
	}
}

// Purge drops cached text images.
func (o *Overlay) Purge() {
	for _, img := range o.cache {
		img.Deallocate()
	}
	o.cache = nil
}

func (o *Overlay) textImage(text string) *ebiten.Image {
	if img, ok := o.cache[text]; ok {
		return img
	}
	w, h := textSize(text)
	img := ebiten.NewImage(w, h)
	ebitenutil.DebugPrintAt(img, text, 0, 0)
	if o.cache == nil {
		o.cache = make(map[string]*ebiten.Image)
	}
	o.cache[text] = img
	return img
}

// CommandGeoM converts a command transform to an ebiten.GeoM.
func CommandGeoM(cmd *trackview.RenderCommand) ebiten.GeoM {
	var m ebiten.GeoM
	m.SetElement(0, 0, cmd.Transform[0])
	m.SetElement(1, 0, cmd.Transform[1])
	m.SetElement(0, 1, cmd.Transform[2])
	m.SetElement(1, 1, cmd.Transform[3])
	m.SetElement(0, 2, cmd.Transform[4])
	m.SetElement(1, 2, cmd.Transform[5])
	return m
}

// textSize returns the pixel size of text in the debug font.
func textSize(text string) (int, int) {
	lines := strings.Split(text, "\n")
	w := 0
	for _, l := range lines {
		w = max(w, len(l)*glyphWidth)
	}
	return max(w, 1), len(lines) * glyphHeight
}

// alignOffset returns the horizontal shift, in unscaled pixels, that applies
// align around the anchor point.
func alignOffset(text string, align trackview.TextAlign) float64 {
	w, _ := textSize(text)
	switch align {
	case trackview.TextAlignCenter:
		return -float64(w) / 2
	case trackview.TextAlignRight:
		return -float64(w)
	}
	return 0
}
