package city

import "fmt"

// Rect is an axis-aligned footprint. Width and Depth are the size; PosW and
// PosD are the position inside the parent's local frame and stay zero until
// the rectangle is placed.
type Rect struct {
	Width uint16
	Depth uint16
	PosW  uint16
	PosD  uint16
}

// NewRect returns an unplaced rectangle of the given size.
func NewRect(width, depth uint16) Rect {
	return Rect{Width: width, Depth: depth}
}

// Area returns Width*Depth in a type wide enough that it never overflows.
func (r Rect) Area() uint64 { return uint64(r.Width) * uint64(r.Depth) }

// Valid reports whether r has a non-degenerate footprint.
func (r Rect) Valid() bool { return r.Width > 0 && r.Depth > 0 }

// MoveTo sets the position of r.
func (r *Rect) MoveTo(w, d uint16) {
	r.PosW = w
	r.PosD = d
}

// Overlaps reports whether r and o, both offset by their positions,
// intersect once each is grown by gap units on its far edges.
// A gap of 0 tests plain intersection.
func (r Rect) Overlaps(o Rect, gap int) bool {
	rw0, rd0 := int(r.PosW), int(r.PosD)
	ow0, od0 := int(o.PosW), int(o.PosD)
	return rw0 < ow0+int(o.Width)+gap &&
		ow0 < rw0+int(r.Width)+gap &&
		rd0 < od0+int(o.Depth)+gap &&
		od0 < rd0+int(r.Depth)+gap
}

// String returns "WxD@(w,d)".
func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", r.Width, r.Depth, r.PosW, r.PosD)
}
