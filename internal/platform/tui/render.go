package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/jumpnbump/internal/core"
	"github.com/vovakirdan/jumpnbump/internal/sprite"
)

// Host picture size in terminal cells. One cell is 4x8 console pixels.
const (
	ScreenCols = 80
	ScreenRows = 28

	pixelsPerCol = 4
	pixelsPerRow = 8
)

// paletteColors are the full brightness colours of the four palette lines.
var paletteColors = [4]string{"15", "214", "117", "205"}

// paletteStyles holds one style per palette line and brightness level.
var paletteStyles = buildPaletteStyles()

func buildPaletteStyles() [core.PaletteNone + 1][MaxBrightness + 1]lipgloss.Style {
	var styles [core.PaletteNone + 1][MaxBrightness + 1]lipgloss.Style
	for pal := range styles {
		for b := range styles[pal] {
			s := lipgloss.NewStyle()
			switch {
			case core.Palette(pal) == core.PaletteNone:
			case b == MaxBrightness:
				s = s.Foreground(lipgloss.Color(paletteColors[pal]))
			case b == 0:
				s = s.Foreground(lipgloss.Color("0"))
			default:
				// 256 colour grey ramp runs 232..255
				s = s.Foreground(lipgloss.Color(strconv.Itoa(232 + b*3)))
			}
			styles[pal][b] = s
		}
	}
	return styles
}

// spriteGlyphs are picked by image number, so animation frames look
// different on the terminal.
var spriteGlyphs = []rune{'█', '▓', '▒', '▙', '▟', '▛', '▜', '▞', '░'}

// DrawSnapshot draws the console picture into dst.
func DrawSnapshot(dst *core.Screen, snap Snapshot) {
	dst.Clear()
	if snap.Logo != "" {
		mid := dst.Height() / 2
		dst.DrawTextCentered(mid-1, strings.ToUpper(snap.Logo), core.Palette0)
		dst.DrawTextCentered(mid+1, "press any button", core.Palette2)
		return
	}

	chain := sprite.Chain(snap.SAT)
	// Lower entries have priority, so they are drawn last.
	for i := len(chain) - 1; i >= 0; i-- {
		drawSprite(dst, chain[i])
	}
}

func drawSprite(dst *core.Screen, d sprite.Descriptor) {
	w, h := d.Cells()
	x0 := (int(d.X) - sprite.ScreenOffset) / pixelsPerCol
	y0 := (int(d.Y) - sprite.ScreenOffset) / pixelsPerRow
	cols := w * 8 / pixelsPerCol
	rows := h * 8 / pixelsPerRow

	image := int(d.Tile()) / (w * h)
	glyph := spriteGlyphs[image%len(spriteGlyphs)]
	pal := core.Palette(d.Palette())

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			dst.Set(x0+x, y0+y, glyph, pal)
		}
	}
	// facing marker on the top row
	if d.HFlip() {
		dst.Set(x0, y0, '◀', pal)
	} else {
		dst.Set(x0+cols-1, y0, '▶', pal)
	}
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same palette to minimize ANSI escape
// sequences.
func RenderScreen(s *core.Screen, brightness int) string {
	brightness = min(max(brightness, 0), MaxBrightness)

	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y, h := 0, s.Height(); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y).Palette

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Palette != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			pal := min(start, core.PaletteNone)
			sb.WriteString(paletteStyles[pal][brightness].Render(run.String()))
		}
	}
	return sb.String()
}
