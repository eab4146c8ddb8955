package city

import "errors"

var (
	// ErrInvalidPath is returned by [Group.Insert] when the path has no
	// segments or contains an empty segment.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidDimensions is returned when a rectangle with zero width or
	// depth reaches the builder or the packer. Callers coerce sizes with
	// [Metrics.Coerce] before inserting.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrLayoutOverflow is returned when a packed group would grow beyond
	// the 16-bit coordinate range.
	ErrLayoutOverflow = errors.New("layout overflow")

	// ErrOverlap is returned by [Group.Verify] when two siblings collide.
	ErrOverlap = errors.New("siblings overlap")

	// ErrOutOfBounds is returned by [Group.Verify] when a child does not
	// fit inside its parent's footprint.
	ErrOutOfBounds = errors.New("child outside parent")

	// ErrDuplicateGroup is returned by [Group.AddGroup] when a child group
	// with the same name already exists.
	ErrDuplicateGroup = errors.New("duplicate group name")
)
