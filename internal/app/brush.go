package app

import "fluid-ca/internal/core"

// Paint applies tool to every cell within radius of (cx, cy). Sources and
// sinks are single-cell tools and ignore the radius.
func Paint(ed core.Editor, tool core.Tool, cx, cy, radius int) int {
	if tool == core.ToolSource || tool == core.ToolSink || radius <= 0 {
		ed.Apply(tool, cx, cy)
		return 1
	}
	n := 0
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			ed.Apply(tool, cx+dx, cy+dy)
			n++
		}
	}
	return n
}

// ScreenToCell maps a cursor position to cell coordinates and reports
// whether it falls inside the grid.
func ScreenToCell(mx, my, scale int, size core.Size) (int, int, bool) {
	if scale <= 0 {
		scale = 1
	}
	if mx < 0 || my < 0 {
		return 0, 0, false
	}
	x, y := mx/scale, my/scale
	return x, y, x < size.W && y < size.H
}
