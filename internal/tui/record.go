package tui

import (
	"image"
	"image/color"
	"image/gif"
	"os"
)

// recorder accumulates braille frames and writes them out as an animated
// GIF. Each braille cell expands to a 4x8 pixel block, white dots on a
// black background.
type recorder struct {
	active bool
	frames []*image.Paletted
}

func (r *recorder) toggle() bool {
	r.active = !r.active
	if r.active {
		r.frames = r.frames[:0]
	}
	return r.active
}

// capture rasterizes one braille grid. A nil grid (flat renderer) is
// skipped so toggling recording under the fallback is harmless.
func (r *recorder) capture(grid [][]rune) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return
	}
	const charW, charH = 4, 8
	rows, cols := len(grid), len(grid[0])
	img := image.NewPaletted(
		image.Rect(0, 0, cols*charW, rows*charH),
		color.Palette{color.Black, color.White},
	)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			g := grid[row][col]
			if g < 0x2800 {
				continue
			}
			pattern := int(g - 0x2800)
			dotW, dotH := charW/2, charH/4
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					var bit int
					switch dy {
					case 0:
						bit = 1 << (dx * 3)
					case 1:
						bit = 2 << (dx * 3)
					case 2:
						bit = 4 << (dx * 3)
					case 3:
						if dx == 0 {
							bit = 0x40
						} else {
							bit = 0x80
						}
					}
					if pattern&bit == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, 1)
						}
					}
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

func (r *recorder) save(path string) error {
	if len(r.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 3)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}
