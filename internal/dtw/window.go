package dtw

// Window is the set of admissible (i, j) cells for a refined alignment over
// a rows×cols grid. Cells outside the grid are never members.
type Window struct {
	rows, cols int
	cells      []bool
	size       int
}

// NewWindow returns an empty window over a rows×cols grid.
func NewWindow(rows, cols int) *Window {
	return &Window{
		rows:  rows,
		cols:  cols,
		cells: make([]bool, rows*cols),
	}
}

// FullWindow returns a window containing every cell of a rows×cols grid.
func FullWindow(rows, cols int) *Window {
	w := NewWindow(rows, cols)
	for k := range w.cells {
		w.cells[k] = true
	}
	w.size = len(w.cells)
	return w
}

// Add inserts (i, j). Out-of-grid cells are ignored.
func (w *Window) Add(i, j int) {
	if i < 0 || j < 0 || i >= w.rows || j >= w.cols {
		return
	}
	k := i*w.cols + j
	if !w.cells[k] {
		w.cells[k] = true
		w.size++
	}
}

// Contains reports whether (i, j) is a member of the window.
func (w *Window) Contains(i, j int) bool {
	if i < 0 || j < 0 || i >= w.rows || j >= w.cols {
		return false
	}
	return w.cells[i*w.cols+j]
}

// Len returns the number of member cells.
func (w *Window) Len() int {
	return w.size
}

// Dims returns the grid dimensions.
func (w *Window) Dims() (rows, cols int) {
	return w.rows, w.cols
}

// Dilate returns a new window holding every cell within Chebyshev distance
// radius of a member of w, clipped to the grid.
func (w *Window) Dilate(radius int) *Window {
	out := NewWindow(w.rows, w.cols)
	for i := 0; i < w.rows; i++ {
		for j := 0; j < w.cols; j++ {
			if !w.cells[i*w.cols+j] {
				continue
			}
			for a := max(0, i-radius); a <= min(w.rows-1, i+radius); a++ {
				for b := max(0, j-radius); b <= min(w.cols-1, j+radius); b++ {
					out.Add(a, b)
				}
			}
		}
	}
	return out
}

// Project maps a coarse-resolution path onto a rows×cols grid. Every coarse
// cell (i, j) lands on (2i, 2j) and contributes its 3×3 neighbourhood.
func Project(path Path, rows, cols int) *Window {
	w := NewWindow(rows, cols)
	for _, p := range path {
		i2, j2 := p[0]*2, p[1]*2
		for a := i2 - 1; a <= i2+1; a++ {
			for b := j2 - 1; b <= j2+1; b++ {
				w.Add(a, b)
			}
		}
	}
	return w
}
