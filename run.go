package stage

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// Resizable lets the user resize the window; the editor camera follows.
	Resizable bool
}

// Run opens a window and runs game until it is closed. It is a thin wrapper
// over ebiten.RunGame for Editor and Player.
func Run(game ebiten.Game, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	return ebiten.RunGame(game)
}

// drawFPS prints the current FPS and TPS in the top-left corner.
func drawFPS(dst *ebiten.Image) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(100, 32)
	op.ColorScale.ScaleWithColor(color.RGBA{0, 0, 0, 128})
	dst.DrawImage(ensureWhitePixel(), &op)
	ebitenutil.DebugPrint(dst, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}
