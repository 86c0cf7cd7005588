package diag

import "fmt"

// Span is a half-open byte range on a single source line. A span can
// carry a shift (cumulative column offset introduced by earlier text
// expansion, e.g. inserted patches) and a relative flag (offsets are
// relative to the message's column until normalized by the renderer).
type Span struct {
	start    int
	size     int
	shift    int
	relative bool
}

// NewSpan builds the span [start, end). A backwards range collapses to
// an empty span at start.
func NewSpan(start, end int) Span {
	if end < start {
		end = start
	}
	return Span{start: start, size: end - start}
}

// SpanFromSize builds the span [start, start+size).
func SpanFromSize(start, size int) Span {
	return Span{start: start, size: size}
}

// Start returns the shifted start column.
func (s Span) Start() int { return s.start + s.shift }

// End returns the shifted end column.
func (s Span) End() int { return s.Start() + s.size }

func (s Span) Size() int   { return s.size }
func (s Span) Empty() bool { return s.size == 0 }

// IsValid reports whether the span carries any information: the empty
// span at column 0 is the invalid placeholder.
func (s Span) IsValid() bool { return !(s.Empty() && s.Start() == 0) }

func (s Span) Shift() int { return s.shift }

func (s Span) SetShift(shift int) Span {
	s.shift = shift
	return s
}

// SetOffset moves the start by delta, clamping at column 0. The shift
// is folded into the new absolute position.
func (s Span) SetOffset(delta int) Span {
	start := s.start + s.shift + delta
	if start < 0 {
		start = 0
	}
	return SpanFromSize(start, s.size)
}

func (s Span) SetSize(size int) Span {
	s.size = size
	return s
}

func (s Span) ToRelative() Span {
	s.relative = true
	return s
}

func (s Span) ToAbsolute() Span {
	s.relative = false
	return s
}

func (s Span) IsRelative() bool { return s.relative }

// Raw returns the span without its shift applied.
func (s Span) Raw() Span { return NewSpan(s.start, s.start+s.size) }

// Contains reports whether s covers other entirely.
func (s Span) Contains(other Span) bool {
	return s.Start() <= other.Start() && s.End() >= other.End()
}

// OutsideOf reports whether the two spans share no byte.
func (s Span) OutsideOf(other Span) bool {
	return s.Start() >= other.End() || s.End() <= other.Start()
}

// SplitIfIntersect splits s and other into two non-overlapping pieces.
// Assumes s sorts before other.
func (s Span) SplitIfIntersect(other Span) (Span, Span) {
	if s.Empty() && s.Start() == other.Start() {
		return other, Span{}
	}
	if other.Empty() && s.End() == other.End() {
		return s, Span{}
	}
	if s.OutsideOf(other) {
		return s, other
	}
	if s.Contains(other) {
		return s, Span{}
	}
	if other.Contains(s) {
		return other, Span{}
	}

	// Case 1:
	// |-----|
	//    |-----|
	if s.Start() <= other.Start() {
		return s, NewSpan(s.End(), other.End())
	}

	// Case 2:
	//    |-----|
	// |-----|
	return NewSpan(other.Start(), s.Start()), NewSpan(s.Start(), s.End())
}

func (s Span) String() string {
	return fmt.Sprintf("Span(%d, %d, %d)", s.Start(), s.End(), s.size)
}
