package particles

// Step advances every particle once, then applies sources and sinks and
// flips the horizontal scan direction.
func (f *Field) Step() {
	w, h := f.grid.W, f.grid.H
	for y := 0; y < h; y++ {
		if f.reversed {
			for x := w - 1; x >= 0; x-- {
				f.stepCell(x, y)
			}
		} else {
			for x := 0; x < w; x++ {
				f.stepCell(x, y)
			}
		}
	}

	cells := f.grid.Cells()
	for _, i := range f.sources {
		if cells[i] != Fluid {
			cells[i] = Fluid
			f.mark(i)
		}
	}
	for _, i := range f.sinks {
		if cells[i] != Empty {
			cells[i] = Empty
			f.mark(i)
		}
	}
	f.reversed = !f.reversed
}

func (f *Field) stepCell(x, y int) {
	if f.grid.Get(x, y) != Fluid {
		return
	}
	if f.empty(x, y-1) {
		f.move(x, y, x, y-1)
		return
	}
	sign := f.rng.Sign()
	switch {
	case f.empty(x+sign, y-1):
		f.move(x, y, x+sign, y-1)
	case f.empty(x-sign, y-1):
		f.move(x, y, x-sign, y-1)
	case f.empty(x+sign, y):
		f.move(x, y, x+sign*f.slide(x, y, sign), y)
	case f.empty(x-sign, y):
		f.move(x, y, x-sign*f.slide(x, y, -sign), y)
	}
}

// slide returns how many cells a particle travels along dir. It stops short
// of an occupied cell or of a cell with a hole beneath it.
func (f *Field) slide(x, y, dir int) int {
	i := 1
	for i < f.FlowMultiplier {
		nx := x + dir*(i+1)
		if !f.empty(nx, y) || f.empty(nx, y-1) {
			break
		}
		i++
	}
	return i
}

func (f *Field) empty(x, y int) bool { return f.grid.Get(x, y) == Empty }

func (f *Field) move(x1, y1, x2, y2 int) {
	if f.empty(x1, y1) || !f.empty(x2, y2) {
		return
	}
	f.Set(x2, y2, f.grid.Get(x1, y1))
	f.Set(x1, y1, Empty)
}
