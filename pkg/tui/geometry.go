package tui

import "github.com/pkg/errors"

// Bounds is the terminal size in cells.
type Bounds struct {
	Width  int
	Height int
}

// Geometry is the strip of terminal rows the view currently owns:
// [Top, Bottom), zero-indexed from the top of the terminal.
type Geometry struct {
	Top    int
	Bottom int
}

func (g Geometry) Height() int { return g.Bottom - g.Top }

// Reconcile makes rowCount rows plus the bottom margin fit inside the
// viewport, growing it when possible and otherwise deciding how many of
// the oldest rows must be evicted into scroll history. The policy is
// deterministic: grow downward first, then reclaim space above the
// viewport, then evict.
//
// It never mutates terminal state; callers act on the returned geometry
// and eviction count.
func Reconcile(g Geometry, b Bounds, rowCount, margin int) (Geometry, int, error) {
	if b.Height < margin {
		return g, 0, errors.Errorf("terminal height %d is shorter than the required margin %d", b.Height, margin)
	}

	// Clamp to the terminal after a resize.
	if g.Bottom > b.Height {
		g.Bottom = b.Height
	}
	if g.Top < 0 {
		g.Top = 0
	}
	if g.Top > g.Bottom {
		g.Top = g.Bottom
	}

	evict := 0
	for rowCount-evict > g.Height()-margin {
		switch {
		case g.Bottom < b.Height:
			g.Bottom++
		case g.Top > 0:
			g.Top--
		default:
			evict++
		}
	}
	return g, evict, nil
}
