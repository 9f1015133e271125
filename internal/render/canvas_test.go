package render

import (
	"strings"
	"testing"
)

func TestCanvasSetLightsBrailleDot(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Set(0, 0, 1, PaintEdge)
	if c.glyphs[0][0] != 0x2801 {
		t.Errorf("expected top-left dot 0x2801, got %#x", c.glyphs[0][0])
	}
}

func TestCanvasSetOutOfRangeIgnored(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(-1, 0, 1, PaintEdge)
	c.Set(0, -3, 1, PaintEdge)
	c.Set(4, 0, 1, PaintEdge)  // sub-pixel width is 4, first invalid col
	c.Set(0, 8, 1, PaintEdge)  // sub-pixel height is 8
	for _, row := range c.glyphs {
		for _, g := range row {
			if g != 0x2800 {
				t.Fatalf("out-of-range set modified the canvas: %#x", g)
			}
		}
	}
}

func TestCanvasBrightestContributorWinsPaint(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(0, 0, 0.9, PaintParticle)
	c.Set(1, 1, 0.2, PaintEdge) // same cell, dimmer
	if c.paint[0][0] != PaintParticle {
		t.Errorf("expected particle paint to win, got %d", c.paint[0][0])
	}
	if c.level[0][0] != 0.9 {
		t.Errorf("expected level 0.9, got %v", c.level[0][0])
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 3)
	c.FillDisc(3, 6, 2, 1, PaintFlow)
	c.Clear()
	for i, row := range c.glyphs {
		for j, g := range row {
			if g != 0x2800 || c.level[i][j] != 0 || c.paint[i][j] != PaintNone {
				t.Fatal("clear left residue")
			}
		}
	}
}

func TestCanvasLineEndpoints(t *testing.T) {
	c := NewCanvas(8, 8)
	c.DrawLine(0, 0, 15, 31, 1, PaintEdge)
	if c.glyphs[0][0] == 0x2800 {
		t.Error("line start not drawn")
	}
	if c.glyphs[7][7] == 0x2800 {
		t.Error("line end not drawn")
	}
}

func TestCanvasStringShape(t *testing.T) {
	c := NewCanvas(5, 3)
	out := c.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}
	for _, l := range lines {
		if len([]rune(l)) != 5 {
			t.Errorf("expected 5 runes per row, got %d", len([]rune(l)))
		}
	}
}

func TestThemePaintClampsLevel(t *testing.T) {
	theme := GetTheme("mono")
	// must not panic on out-of-range levels or unknown paints
	_ = theme.Paint(0, -0.5, "x")
	_ = theme.Paint(0, 3.7, "x")
	if got := theme.Paint(999, 0.5, "x"); got != "x" {
		t.Errorf("unknown paint should pass through, got %q", got)
	}
}

func TestGetThemeFallsBackToFirst(t *testing.T) {
	th := GetTheme("no-such-theme")
	if th.Name != Themes[0].Name {
		t.Errorf("expected default theme %q, got %q", Themes[0].Name, th.Name)
	}
}
