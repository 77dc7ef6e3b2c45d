package ui

// DragPhase enumerates the states of a pointer drag gesture.
type DragPhase int

const (
	DragIdle DragPhase = iota
	DragPressed
	DragDragging
)

func (p DragPhase) String() string {
	switch p {
	case DragIdle:
		return "idle"
	case DragPressed:
		return "pressed"
	case DragDragging:
		return "dragging"
	default:
		return ""
	}
}

// defaultDragThreshold is how many cells the pointer must travel before a
// press becomes a drag. Below it, a press-release pair is a plain click.
const defaultDragThreshold = 2

// DragGesture is a small state machine tracking one press-move-release
// cycle. It knows nothing about what is being dragged; callers watch the
// phase transitions and attach meaning.
type DragGesture struct {
	phase     DragPhase
	originX   int
	originY   int
	x         int
	y         int
	threshold int
}

// NewDragGesture creates an idle gesture. A non-positive threshold falls
// back to the default.
func NewDragGesture(threshold int) DragGesture {
	if threshold <= 0 {
		threshold = defaultDragThreshold
	}
	return DragGesture{threshold: threshold}
}

// Phase returns the current gesture phase.
func (g *DragGesture) Phase() DragPhase {
	return g.phase
}

// Position returns the last observed pointer cell.
func (g *DragGesture) Position() (x, y int) {
	return g.x, g.y
}

// Origin returns the cell where the press started.
func (g *DragGesture) Origin() (x, y int) {
	return g.originX, g.originY
}

// Press starts a gesture at the given cell. Pressing mid-gesture restarts it.
func (g *DragGesture) Press(x, y int) {
	g.phase = DragPressed
	g.originX, g.originY = x, y
	g.x, g.y = x, y
}

// Move updates the pointer position. Reports true on the transition from
// pressed to dragging, which happens once the pointer has travelled at
// least the threshold distance from the origin. Motion while idle is
// ignored.
func (g *DragGesture) Move(x, y int) bool {
	if g.phase == DragIdle {
		return false
	}
	g.x, g.y = x, y

	if g.phase == DragPressed && g.travelled() >= g.threshold {
		g.phase = DragDragging
		return true
	}
	return false
}

// Release ends the gesture. Reports whether it had become a drag; a false
// return means the press never left the click range.
func (g *DragGesture) Release() bool {
	dragged := g.phase == DragDragging
	g.phase = DragIdle
	return dragged
}

// Cancel aborts the gesture without a drop.
func (g *DragGesture) Cancel() {
	g.phase = DragIdle
}

// travelled is the Chebyshev distance from the press origin, which suits a
// cell grid better than euclidean distance.
func (g *DragGesture) travelled() int {
	dx := abs(g.x - g.originX)
	dy := abs(g.y - g.originY)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
