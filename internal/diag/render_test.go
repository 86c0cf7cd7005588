package diag

import (
	"strings"
	"testing"
)

func TestEscapeLine(t *testing.T) {
	escaped, offsets := escapeLine("a\tb")
	if escaped != `a\tb` {
		t.Errorf("escaped = %q", escaped)
	}
	if len(offsets) != 3 || offsets[0] != 0 || offsets[1] != 1 || offsets[2] != 0 {
		t.Errorf("offsets = %v", offsets)
	}

	escaped, offsets = escapeLine("plain")
	if escaped != "plain" || offsets != nil {
		t.Errorf("plain line escaped to %q, offsets %v", escaped, offsets)
	}
}

func suggestionMessage(line string, suggestions ...Suggestion) *Message {
	return &Message{
		Location: Location{
			Filename:     "test.dk",
			Line:         line,
			LineNumber:   1,
			ColumnNumber: 1,
			Length:       1,
		},
		Suggestions: suggestions,
	}
}

func TestBuildUniqueSortedSpansDisjoint(t *testing.T) {
	msg := suggestionMessage("abcdefghij",
		Suggestion{Message: "first", Span: NewSpan(0, 2), Level: Error},
		Suggestion{Message: "second", Span: NewSpan(4, 6), Level: Info},
	)
	sc := NewStreamConsumer(&strings.Builder{})
	sc.normalizeSuggestions(msg, msg.Location.Line, nil)

	unique := buildUniqueSortedSpans(msg)
	if len(unique) != 2 {
		t.Fatalf("unique = %+v", unique)
	}
	if unique[0].span.Start() != 0 || unique[0].span.End() != 2 {
		t.Errorf("unique[0].span = %v", unique[0].span)
	}
	if unique[1].span.Start() != 4 || unique[1].span.End() != 6 {
		t.Errorf("unique[1].span = %v", unique[1].span)
	}
}

func TestBuildUniqueSortedSpansResolvesOverlap(t *testing.T) {
	// The Error span wins the shared bytes; the Info span keeps the
	// remainder.
	msg := suggestionMessage("abcdefghij",
		Suggestion{Message: "severe", Span: NewSpan(0, 5), Level: Error},
		Suggestion{Message: "mild", Span: NewSpan(3, 8), Level: Info},
		Suggestion{Message: "tail", Span: NewSpan(8, 9), Level: Warning},
	)
	sc := NewStreamConsumer(&strings.Builder{})
	sc.normalizeSuggestions(msg, msg.Location.Line, nil)

	unique := buildUniqueSortedSpans(msg)

	for i := 0; i+1 < len(unique); i++ {
		if !unique[i].span.OutsideOf(unique[i+1].span) {
			t.Fatalf("spans %d and %d overlap: %v vs %v", i, i+1, unique[i].span, unique[i+1].span)
		}
		if unique[i].span.Start() > unique[i+1].span.Start() {
			t.Fatalf("spans out of order: %+v", unique)
		}
	}

	if unique[0].level != Error || unique[0].span.Size() != 5 {
		t.Errorf("severe span shrank: %+v", unique[0])
	}
}

func TestInsertSpansAreContentWide(t *testing.T) {
	msg := suggestionMessage("let x 1;",
		Suggestion{
			Message:      "insert equals",
			Span:         SpanFromSize(6, 2),
			Level:        Info,
			PatchKind:    PatchInsert,
			PatchContent: "= ",
		},
	)
	sc := NewStreamConsumer(&strings.Builder{})
	sc.normalizeSuggestions(msg, msg.Location.Line, nil)

	if got := msg.Suggestions[0].Span.Size(); got != len("= ") {
		t.Errorf("insert span size = %d, want %d", got, len("= "))
	}
}

func TestRelativeSpanOffsetsByColumn(t *testing.T) {
	msg := suggestionMessage("  abcdef",
		Suggestion{Message: "here", Span: NewSpan(0, 2).ToRelative(), Level: Error},
	)
	msg.Location.ColumnNumber = 3
	sc := NewStreamConsumer(&strings.Builder{})
	sc.normalizeSuggestions(msg, msg.Location.Line, nil)

	if got := msg.Suggestions[0].Span.Start(); got != 2 {
		t.Errorf("relative span start = %d, want 2", got)
	}
}

func TestEscapeRemapMovesSpans(t *testing.T) {
	line := "a\tbc"
	escaped, offsets := escapeLine(line)
	msg := suggestionMessage(escaped,
		Suggestion{Message: "bc", Span: NewSpan(2, 4), Level: Error},
	)
	sc := NewStreamConsumer(&strings.Builder{})
	sc.normalizeSuggestions(msg, escaped, offsets)

	// The tab expanded to two columns, pushing the span right by one.
	if got := msg.Suggestions[0].Span.Start(); got != 3 {
		t.Errorf("span start = %d, want 3", got)
	}
}

func renderOne(d *Diagnostic) string {
	var sb strings.Builder
	c := NewStreamConsumer(&sb)
	c.Consume(d)
	return sb.String()
}

func TestStreamConsumerBasicLayout(t *testing.T) {
	out := renderOne(&Diagnostic{
		Level: Error,
		Collections: []Collection{{
			Kind:  InvalidDigit,
			Level: Error,
			Text:  "Invalid digit 'a' in decimal numeric literal",
			Messages: []Message{{
				Location: Location{
					Filename:     "test.dk",
					Line:         "123abc",
					LineNumber:   1,
					ColumnNumber: 4,
					Length:       1,
				},
				Suggestions: []Suggestion{{
					Message: "Try removing the invalid digit.",
					Span:    NewSpan(3, 4),
					Level:   Info,
				}},
			}},
		}},
	})

	lines := strings.Split(out, "\n")
	if lines[0] != "error: Invalid digit 'a' in decimal numeric literal" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "  --> test.dk:1:4" {
		t.Errorf("locator = %q", lines[1])
	}
	if lines[2] != " 1 | 123abc" {
		t.Errorf("source line = %q", lines[2])
	}
	if lines[3] != "   |    ^" {
		t.Errorf("caret row = %q", lines[3])
	}
	if !strings.Contains(out, "Try removing the invalid digit.") {
		t.Errorf("suggestion text missing:\n%s", out)
	}
	// The leader line points at the caret column.
	found := false
	for _, l := range lines[4:] {
		if strings.HasPrefix(l, "   |    |") {
			found = true
		}
	}
	if !found {
		t.Errorf("leader line missing:\n%s", out)
	}
}

func TestStreamConsumerCaretStyles(t *testing.T) {
	out := renderOne(&Diagnostic{
		Level: Error,
		Collections: []Collection{{
			Level: Error,
			Text:  "patches",
			Messages: []Message{{
				Location: Location{
					Filename:     "test.dk",
					Line:         "let x 1;",
					LineNumber:   2,
					ColumnNumber: 1,
					Length:       3,
				},
				Suggestions: []Suggestion{
					{
						Message:      "insert '='",
						Span:         SpanFromSize(6, 0),
						Level:        Info,
						PatchKind:    PatchInsert,
						PatchContent: "= ",
					},
					{
						Message:   "remove this",
						Span:      NewSpan(0, 3),
						Level:     Error,
						PatchKind: PatchRemove,
					},
				},
			}},
		}},
	})

	if !strings.Contains(out, "---") {
		t.Errorf("remove patch markers missing:\n%s", out)
	}
	if !strings.Contains(out, "++") {
		t.Errorf("insert patch markers missing:\n%s", out)
	}
	// Inserted text is spliced into the source line.
	if !strings.Contains(out, "= ") {
		t.Errorf("inserted content missing:\n%s", out)
	}
}

func TestStreamConsumerMultipleCollections(t *testing.T) {
	out := renderOne(&Diagnostic{
		Level: Error,
		Collections: []Collection{
			{
				Level: Error,
				Text:  "primary problem",
				Messages: []Message{{
					Location: Location{Filename: "a.dk", Line: "xx", LineNumber: 1, ColumnNumber: 1, Length: 1},
				}},
			},
			{
				Level: Note,
				Text:  "related note",
				Messages: []Message{{
					Location: Location{Filename: "b.dk", Line: "yy", LineNumber: 9, ColumnNumber: 1, Length: 1},
				}},
			},
		},
	})

	if !strings.Contains(out, "error: primary problem") {
		t.Errorf("error header missing:\n%s", out)
	}
	if !strings.Contains(out, "note: related note") {
		t.Errorf("note header missing:\n%s", out)
	}
	if !strings.Contains(out, "  --> a.dk:1:1") || !strings.Contains(out, "  --> b.dk:9:1") {
		t.Errorf("locators missing:\n%s", out)
	}
	if strings.Index(out, "error:") > strings.Index(out, "note:") {
		t.Errorf("collections out of order:\n%s", out)
	}
}

func TestStreamConsumerContextsFooter(t *testing.T) {
	out := renderOne(&Diagnostic{
		Level: Error,
		Collections: []Collection{{
			Level: Error,
			Text:  "with footer",
			Messages: []Message{{
				Location: Location{Filename: "a.dk", Line: "zz", LineNumber: 1, ColumnNumber: 1, Length: 1},
			}},
			Contexts: []Context{{Message: "Remove the misplaced digit separator.", Level: Info}},
		}},
	})

	if !strings.Contains(out, "info: Remove the misplaced digit separator.") {
		t.Errorf("context footer missing:\n%s", out)
	}
}

func TestStreamConsumerSeparatesDiagnostics(t *testing.T) {
	var sb strings.Builder
	c := NewStreamConsumer(&sb)
	d := Diagnostic{
		Level: Error,
		Collections: []Collection{{
			Level:    Error,
			Text:     "one",
			Messages: []Message{{Location: Location{Filename: "a.dk", LineNumber: 1, ColumnNumber: 1}}},
		}},
	}
	second := d
	c.Consume(&d)
	c.Consume(&second)

	if !strings.Contains(sb.String(), "\n\nerror:") {
		t.Errorf("diagnostics not separated by a blank line:\n%s", sb.String())
	}
}

func TestStreamConsumerNoColorByDefault(t *testing.T) {
	out := renderOne(&Diagnostic{
		Level: Error,
		Collections: []Collection{{
			Level:    Error,
			Text:     "plain",
			Messages: []Message{{Location: Location{Filename: "a.dk", Line: "q", LineNumber: 1, ColumnNumber: 1, Length: 1}}},
		}},
	})
	if strings.Contains(out, "\x1b[") {
		t.Errorf("ANSI escapes in non-color output:\n%s", out)
	}
}

func TestColorStreamConsumerEmitsANSI(t *testing.T) {
	var sb strings.Builder
	c := NewColorStreamConsumer(&sb)
	c.Consume(&Diagnostic{
		Level: Error,
		Collections: []Collection{{
			Level:    Error,
			Text:     "colored",
			Messages: []Message{{Location: Location{Filename: "a.dk", Line: "q", LineNumber: 1, ColumnNumber: 1, Length: 1}}},
		}},
	})
	if !strings.Contains(sb.String(), "\x1b[") {
		t.Errorf("no ANSI escapes in color output:\n%s", sb.String())
	}
}

func TestCanvasKeepsEveryMessage(t *testing.T) {
	// Three disjoint spans with one message each; the canvas never
	// loses message text.
	out := renderOne(&Diagnostic{
		Level: Error,
		Collections: []Collection{{
			Level: Error,
			Text:  "several notes",
			Messages: []Message{{
				Location: Location{
					Filename:     "test.dk",
					Line:         "alpha beta gamma delta",
					LineNumber:   3,
					ColumnNumber: 1,
					Length:       5,
				},
				Suggestions: []Suggestion{
					{Message: "first note", Span: NewSpan(0, 5), Level: Error},
					{Message: "second note", Span: NewSpan(6, 10), Level: Warning},
					{Message: "third note", Span: NewSpan(11, 16), Level: Info},
				},
			}},
		}},
	})

	for _, want := range []string{"first note", "second note", "third note"} {
		if !strings.Contains(out, want) {
			t.Errorf("canvas lost %q:\n%s", want, out)
		}
	}

	// No two rendered spans share a column: the caret row has three
	// distinct groups.
	var caretRow string
	for _, l := range strings.Split(out, "\n") {
		if strings.Contains(l, "^~~~") {
			caretRow = l
			break
		}
	}
	if caretRow == "" {
		t.Fatalf("caret row missing:\n%s", out)
	}
	if got := strings.Count(caretRow, "^"); got != 3 {
		t.Errorf("caret row = %q, want 3 span heads", caretRow)
	}
}
