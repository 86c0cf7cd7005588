// Package diag implements the diagnostic engine: the diagnostic tree
// model, the generic builder/emitter, and the consumers that render
// annotated source excerpts.
package diag

import "strings"

// Location is a fully resolved source position: where a collection's
// primary message points.
type Location struct {
	Filename string
	// Line is the full text of the source line (no trailing newline).
	Line string
	// LineNumber is 1-based; 0 means unknown.
	LineNumber int
	// ColumnNumber is 1-based; 0 means unknown.
	ColumnNumber int
	// Length is the byte length of the region the diagnostic covers.
	Length int
}

// CanBePrinted reports whether the location names a file.
func (l Location) CanBePrinted() bool {
	return strings.TrimSpace(l.Filename) != ""
}

func (l Location) String() string {
	name := strings.TrimSpace(l.Filename)
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(name)
	if l.LineNumber > 0 {
		b.WriteByte(':')
		b.WriteString(itoa(l.LineNumber))
		if l.ColumnNumber > 0 {
			b.WriteByte(':')
			b.WriteString(itoa(l.ColumnNumber))
		}
	}
	return b.String()
}

// PatchKind classifies the edit a suggestion proposes.
type PatchKind uint8

const (
	PatchNone PatchKind = iota
	PatchRemove
	PatchInsert
)

// Suggestion is a secondary annotation on a message: an underlined
// span with its own level, text, and optional patch. An Insert patch's
// span starts at the insertion point and may be empty or already sized;
// the renderer sets its width to that of PatchContent.
type Suggestion struct {
	Message      string
	Span         Span
	Level        Level
	PatchKind    PatchKind
	PatchContent string
}

// Context is a footer line printed after the annotated excerpt.
type Context struct {
	Message string
	Level   Level
}

// Message is one annotated excerpt within a collection.
type Message struct {
	Location    Location
	Suggestions []Suggestion
}

// Collection is one titled section of a diagnostic: a kind, a level, a
// formatted headline, the annotated messages, and footer contexts.
type Collection struct {
	Kind     Kind
	Level    Level
	Text     string
	Messages []Message
	Contexts []Context
}

// Diagnostic is surfaced exactly once to a consumer; consumers may
// buffer and re-emit it.
type Diagnostic struct {
	Level       Level
	Collections []Collection
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
