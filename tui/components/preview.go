package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FramePreview renders a packed RGB24 frame into at most cols x rows terminal
// cells. Each cell is an upper half block whose foreground is the top pixel
// and background the bottom pixel, so one cell shows two source rows.
// Sampling is nearest neighbour with the aspect ratio preserved.
func FramePreview(payload []byte, width, height, cols, rows int) string {
	if width <= 0 || height <= 0 || cols <= 0 || rows <= 0 || len(payload) < width*height*3 {
		return ""
	}

	outW, outH := fitAspect(width, height, cols, rows*2)
	var b strings.Builder
	for y := 0; y < outH; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < outW; x++ {
			top := pixelAt(payload, width, height, x*width/outW, y*height/outH)
			bottom := top
			if y+1 < outH {
				bottom = pixelAt(payload, width, height, x*width/outW, (y+1)*height/outH)
			}
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
	}
	return b.String()
}

// fitAspect scales width x height into maxW x maxH pixels keeping the ratio.
// A terminal cell is about twice as tall as wide; maxH already counts half
// cells so pixels stay square.
func fitAspect(width, height, maxW, maxH int) (int, int) {
	w, h := maxW, maxW*height/width
	if h > maxH {
		w, h = maxH*width/height, maxH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func pixelAt(payload []byte, width, height, x, y int) string {
	if x >= width {
		x = width - 1
	}
	if y >= height {
		y = height - 1
	}
	i := (y*width + x) * 3
	return fmt.Sprintf("#%02x%02x%02x", payload[i], payload[i+1], payload[i+2])
}
