package city

import (
	"fmt"
	"math"
)

// Axis names the dimension a [PackState] grew along most recently.
type Axis uint8

const (
	// AxisWidth grows the container to the right; its shelf is a column.
	AxisWidth Axis = iota
	// AxisDepth grows the container downwards; its shelf is a row.
	AxisDepth
)

// String returns "width" or "depth".
func (a Axis) String() string {
	if a == AxisDepth {
		return "depth"
	}
	return "width"
}

// PackState is the mutable bookkeeping of a single packing pass over the
// children of one group. It tracks the container's bounding size, the space
// left on the active shelf, and where the next same-shelf item goes.
//
// Values are kept as int so that overflow can be detected before anything
// is written back into 16-bit rectangles.
type PackState struct {
	Width int // current container width
	Depth int // current container depth

	FreeW int // space left on the active shelf along width
	FreeD int // space left on the active shelf along depth

	CurW int // next same-shelf position, width coordinate
	CurD int // next same-shelf position, depth coordinate

	Dir Axis // axis of the most recent growth step
}

// NewPackState seeds a pass from the container's current size. The first
// placement always triggers a growth step because no shelf exists yet.
func NewPackState(seed Rect) *PackState {
	return &PackState{
		Width: int(seed.Width),
		Depth: int(seed.Depth),
		CurW:  1,
		CurD:  1,
		Dir:   AxisWidth,
	}
}

// Size returns the container size. It is only meaningful after a
// successful pass, when both values are known to fit into 16 bits.
func (s *PackState) Size() (width, depth uint16) {
	return uint16(s.Width), uint16(s.Depth)
}

// fits reports whether item can go on the active shelf. Along the shelf an
// item needs one unit of trailing border; across it the shelf is exactly as
// thick as the item that opened it.
func (s *PackState) fits(w, d int) bool {
	if s.Dir == AxisWidth {
		return w <= s.FreeW && d+1 <= s.FreeD
	}
	return w+1 <= s.FreeW && d <= s.FreeD
}

// Place assigns item a position inside the container and updates the
// state. Items should be presented largest first.
func (s *PackState) Place(item *Rect) error {
	if !item.Valid() {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, item.Width, item.Depth)
	}
	w, d := int(item.Width), int(item.Depth)

	var posW, posD int
	switch {
	case s.fits(w, d):
		posW, posD = s.CurW, s.CurD
		if s.Dir == AxisWidth {
			s.CurD += d + 1
			s.FreeD -= d + 1
		} else {
			s.CurW += w + 1
			s.FreeW -= w + 1
		}
	case s.Width <= s.Depth:
		posW, posD = s.Width, 1
		s.CurW, s.CurD = s.Width, d+2
		s.Width += w + 1
		s.Depth = max(s.Depth, d+2)
		s.FreeW, s.FreeD = w, s.Depth-d-2
		s.Dir = AxisWidth
	default:
		posW, posD = 1, s.Depth
		s.CurW, s.CurD = w+2, s.Depth
		s.Depth += d + 1
		s.Width = max(s.Width, w+2)
		s.FreeW, s.FreeD = s.Width-w-2, d
		s.Dir = AxisDepth
	}

	if s.Width > math.MaxUint16 || s.Depth > math.MaxUint16 {
		return fmt.Errorf("%w: container reached %dx%d", ErrLayoutOverflow, s.Width, s.Depth)
	}
	item.MoveTo(uint16(posW), uint16(posD))
	return nil
}
