package preview

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/trackview"
)

// statusRefresh is the interval, in seconds, between FPS readings.
const statusRefresh = 0.5

// Status is a small panel showing the playhead of an AnimationContext and
// the current FPS and TPS. The zero value is ready to use.
type Status struct {
	img     *ebiten.Image
	elapsed float64
	fps     float64
	tps     float64
}

// Update samples the frame rates every half second.
func (s *Status) Update(dt float64) {
	s.elapsed += dt
	if s.elapsed < statusRefresh && s.fps != 0 {
		return
	}
	s.elapsed = 0
	s.fps = ebiten.ActualFPS()
	s.tps = ebiten.ActualTPS()
}

// Draw renders the panel at the top-left corner of dst.
func (s *Status) Draw(dst *ebiten.Image, ctx *trackview.AnimationContext) {
	text := statusText(ctx, s.fps, s.tps)
	w, h := textSize(text)
	if s.img == nil || s.img.Bounds().Dx() < w || s.img.Bounds().Dy() < h {
		if s.img != nil {
			s.img.Deallocate()
		}
		s.img = ebiten.NewImage(w, h)
	}
	s.img.Clear()
	s.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(s.img, text)
	dst.DrawImage(s.img, nil)
}

func statusText(ctx *trackview.AnimationContext, fps, tps float64) string {
	state := "paused"
	if ctx.IsPlaying() {
		state = "playing"
	}
	name := "-"
	if seq := ctx.Sequence(); seq != nil {
		name = seq.Name()
	}
	return fmt.Sprintf("%s t=%.2f %s\nFPS: %.1f TPS: %.1f", name, ctx.Time(), state, fps, tps)
}
