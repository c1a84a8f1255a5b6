package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// halfBlock is the upper half block. Its foreground paints the top pixel of
// a cell and its background the bottom one.
const halfBlock = "▀"

// Draw converts the framebuffer to terminal cells and draws them on the
// screen, two framebuffer rows per terminal row. Framebuffer pixel (x, 2y)
// lands in cell (area.Min.X+x, area.Min.Y+y).
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		if topY >= fb.Height {
			break
		}
		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			scr.SetCell(col, row, fb.cell(x, topY))
		}
	}
}

// cell returns the half-block cell for pixels (x, y) and (x, y+1).
func (fb *Framebuffer) cell(x, y int) *uv.Cell {
	return &uv.Cell{
		Content: halfBlock,
		Width:   1,
		Style: uv.Style{
			Fg: termColor(fb.GetPixel(x, y)),
			Bg: termColor(fb.GetPixel(x, y+1)),
		},
	}
}

// termColor maps fully transparent pixels to the terminal default.
func termColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
