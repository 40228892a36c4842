package scan

// Grid holds the coordinates a sweep visits. Cells are traversed row-major,
// all X values for the first Y before advancing to the next Y.
type Grid struct {
	Xs []float64
	Ys []float64
}

// BuildGrid expands the scan area into axis coordinates. Both bounds are
// inclusive; a degenerate axis (min == max) yields a single coordinate.
func BuildGrid(p Params) Grid {
	return Grid{
		Xs: axis(p.XMin, p.XMax, p.StepMM),
		Ys: axis(p.YMin, p.YMax, p.StepMM),
	}
}

// CellCount returns the number of grid cells the sweep visits.
func (g Grid) CellCount() int {
	return len(g.Xs) * len(g.Ys)
}

func axis(min, max, step float64) []float64 {
	var out []float64
	// Epsilon-scale tolerance absorbs float accumulation drift at the far
	// bound without ever emitting a coordinate beyond max.
	for v := min; v <= max+step*1e-9; v += step {
		out = append(out, v)
	}
	return out
}
