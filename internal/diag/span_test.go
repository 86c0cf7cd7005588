package diag

import "testing"

func TestSpanBasics(t *testing.T) {
	s := NewSpan(3, 7)
	if s.Start() != 3 || s.End() != 7 || s.Size() != 4 {
		t.Fatalf("span = %v", s)
	}
	if s.Empty() || !s.IsValid() {
		t.Fatalf("span %v empty/invalid flags wrong", s)
	}

	if got := NewSpan(5, 2); got.Size() != 0 || got.Start() != 5 {
		t.Errorf("backwards range = %v, want empty at 5", got)
	}

	empty := Span{}
	if empty.IsValid() {
		t.Errorf("zero span should be invalid")
	}
	if !SpanFromSize(2, 0).IsValid() {
		t.Errorf("empty span at nonzero column should still be valid")
	}
}

func TestSpanShiftAndRaw(t *testing.T) {
	s := NewSpan(3, 7).SetShift(2)
	if s.Start() != 5 || s.End() != 9 {
		t.Errorf("shifted span = %v", s)
	}
	raw := s.Raw()
	if raw.Start() != 3 || raw.End() != 7 {
		t.Errorf("raw span = %v", raw)
	}
}

func TestSpanSetOffset(t *testing.T) {
	s := NewSpan(3, 7).SetOffset(4)
	if s.Start() != 7 || s.Size() != 4 {
		t.Errorf("offset span = %v", s)
	}
	clamped := NewSpan(1, 2).SetOffset(-10)
	if clamped.Start() != 0 {
		t.Errorf("clamped span = %v", clamped)
	}
	// Shift folds into the new absolute position.
	folded := NewSpan(3, 7).SetShift(2).SetOffset(1)
	if folded.Start() != 6 || folded.Shift() != 0 {
		t.Errorf("folded span = %v shift %d", folded, folded.Shift())
	}
}

func TestSpanRelations(t *testing.T) {
	if !NewSpan(0, 10).Contains(NewSpan(2, 5)) {
		t.Error("Contains failed")
	}
	if !NewSpan(0, 3).OutsideOf(NewSpan(3, 5)) {
		t.Error("adjacent spans should be outside each other")
	}
	if NewSpan(0, 4).OutsideOf(NewSpan(3, 5)) {
		t.Error("overlapping spans reported outside")
	}
}

func TestSpanSplitIfIntersect(t *testing.T) {
	cases := []struct {
		name     string
		a, b     Span
		wantL    Span
		wantR    Span
	}{
		{"disjoint", NewSpan(0, 2), NewSpan(4, 6), NewSpan(0, 2), NewSpan(4, 6)},
		{"a contains b", NewSpan(0, 10), NewSpan(2, 5), NewSpan(0, 10), Span{}},
		{"b contains a", NewSpan(3, 5), NewSpan(0, 10), NewSpan(0, 10), Span{}},
		{"left overlap", NewSpan(0, 5), NewSpan(3, 8), NewSpan(0, 5), NewSpan(5, 8)},
		{"right overlap", NewSpan(3, 8), NewSpan(0, 5), NewSpan(0, 3), NewSpan(3, 8)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, r := tc.a.SplitIfIntersect(tc.b)
			if l != tc.wantL || r != tc.wantR {
				t.Errorf("split(%v, %v) = %v, %v; want %v, %v", tc.a, tc.b, l, r, tc.wantL, tc.wantR)
			}
		})
	}

	// The pieces never share a byte.
	l, r := NewSpan(0, 5).SplitIfIntersect(NewSpan(3, 8))
	if !l.OutsideOf(r) {
		t.Errorf("split pieces overlap: %v vs %v", l, r)
	}
}
