package diag

import (
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// StreamConsumer renders diagnostics as annotated source excerpts:
// header, locator, highlighted line, caret row, and a message canvas
// with leader lines. Color is used only by consumers built with
// NewColorStreamConsumer; the consumer does not check for a terminal.
type StreamConsumer struct {
	w        io.Writer
	useColor bool
	printed  bool

	levelColors [4]*color.Color
	levelBold   [4]*color.Color
	gutterColor *color.Color
	gutterBold  *color.Color
	headerSep   *color.Color
}

// NewStreamConsumer renders to w without color.
func NewStreamConsumer(w io.Writer) *StreamConsumer {
	return newStreamConsumer(w, false)
}

// NewColorStreamConsumer renders to w with ANSI colors.
func NewColorStreamConsumer(w io.Writer) *StreamConsumer {
	return newStreamConsumer(w, true)
}

func newStreamConsumer(w io.Writer, useColor bool) *StreamConsumer {
	c := &StreamConsumer{w: w, useColor: useColor}
	mk := func(attrs ...color.Attribute) *color.Color {
		col := color.New(attrs...)
		if useColor {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
		return col
	}
	c.levelColors = [4]*color.Color{
		Error:   mk(color.FgRed),
		Warning: mk(color.FgYellow),
		Note:    mk(color.FgBlue),
		Info:    mk(color.FgGreen),
	}
	c.levelBold = [4]*color.Color{
		Error:   mk(color.FgRed, color.Bold),
		Warning: mk(color.FgYellow, color.Bold),
		Note:    mk(color.FgBlue, color.Bold),
		Info:    mk(color.FgGreen, color.Bold),
	}
	c.gutterColor = mk(color.FgMagenta)
	c.gutterBold = mk(color.FgMagenta, color.Bold)
	c.headerSep = mk(color.FgWhite, color.Bold)
	return c
}

func (c *StreamConsumer) Flush() {}

// Reset forgets that anything was printed, so the next diagnostic is
// not preceded by a blank separator line.
func (c *StreamConsumer) Reset() { c.printed = false }

func (c *StreamConsumer) Consume(d *Diagnostic) {
	if c.printed {
		io.WriteString(c.w, "\n")
	}
	c.printed = true

	for ci := range d.Collections {
		coll := &d.Collections[ci]
		if len(coll.Messages) == 0 {
			continue
		}
		gutterWidth := maxLineNumberWidth(coll) + 1

		// 1. Headline.
		io.WriteString(c.w, c.levelBold[coll.Level].Sprint(coll.Level.String()))
		io.WriteString(c.w, c.headerSep.Sprint(": "))
		io.WriteString(c.w, coll.Text)
		io.WriteString(c.w, "\n")

		// 2. Locator.
		if loc := coll.Messages[0].Location; loc.CanBePrinted() {
			io.WriteString(c.w, c.gutterColor.Sprint("  --> "))
			io.WriteString(c.w, loc.String())
			io.WriteString(c.w, "\n")
		}

		for mi := range coll.Messages {
			c.renderMessage(&coll.Messages[mi], coll.Level, gutterWidth)
		}

		// 5. Footer contexts.
		for _, ctx := range coll.Contexts {
			io.WriteString(c.w, c.levelBold[ctx.Level].Sprint(ctx.Level.String()))
			io.WriteString(c.w, c.headerSep.Sprint(": "))
			io.WriteString(c.w, ctx.Message)
			io.WriteString(c.w, "\n")
		}
	}
}

func (c *StreamConsumer) renderMessage(msg *Message, collLevel Level, gutterWidth int) {
	escapedLine, offsets := escapeLine(msg.Location.Line)

	defaultSpan := c.normalizeSuggestions(msg, escapedLine, offsets)
	unique := buildUniqueSortedSpans(msg)

	if msg.Location.Line != "" {
		c.highlightContext(msg.Location, escapedLine, gutterWidth, msg.Suggestions, unique, normalizedSpan{
			span:  defaultSpan,
			level: collLevel,
		})
	}

	if len(unique) == 0 {
		return
	}

	// Size the canvas: the line itself plus room for messages hanging
	// past its end, never narrower than 100 columns.
	lineWidth := runewidth.StringWidth(escapedLine)
	last := unique[len(unique)-1].span
	_, rhs := NewSpan(0, len(escapedLine)).SplitIfIntersect(last)
	extra := last.Size()
	if !rhs.Empty() {
		extra = rhs.Size()
	}
	colCount := lineWidth + extra + 10
	if colCount < 100 {
		colCount = 100
	}
	c.renderSuggestionCanvas(gutterWidth, colCount, unique, msg.Suggestions)
}

// escapeLine expands control characters (\n, \r, \t) into two-byte
// escapes and records, per original byte, how many extra columns the
// expansion introduced.
func escapeLine(line string) (string, []int) {
	count := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\n', '\r', '\t':
			count++
		}
	}
	if count == 0 {
		return line, nil
	}
	var b strings.Builder
	b.Grow(len(line) + count)
	offsets := make([]int, len(line))
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\n':
			b.WriteString(`\n`)
			offsets[i] = 1
		case '\r':
			b.WriteString(`\r`)
			offsets[i] = 1
		case '\t':
			b.WriteString(`\t`)
			offsets[i] = 1
		default:
			b.WriteByte(line[i])
		}
	}
	return b.String(), offsets
}

// normalizeSuggestions sorts the message's suggestions and resolves
// every span to an absolute, escape-remapped position. Insert spans
// are widened to their patch text and accumulate the running shift so
// consecutive insertions do not overlap. Returns the diagnostic's own
// default span.
func (c *StreamConsumer) normalizeSuggestions(msg *Message, escapedLine string, offsets []int) Span {
	col := msg.Location.ColumnNumber - 1
	if col < 0 {
		col = 0
	}
	length := msg.Location.Length
	if rest := len(escapedLine) - col; length > rest {
		length = rest
	}
	if length < 0 {
		length = 0
	}
	defaultSpan := NewSpan(col, col+length)

	sort.SliceStable(msg.Suggestions, func(i, j int) bool {
		si, sj := msg.Suggestions[i], msg.Suggestions[j]
		if si.Span.Start() == sj.Span.Start() {
			// Insert before Remove before None.
			return si.PatchKind > sj.PatchKind
		}
		return si.Span.Start() < sj.Span.Start()
	})

	shift := 0
	for i := range msg.Suggestions {
		s := &msg.Suggestions[i]
		if s.Span.Empty() && s.PatchKind != PatchInsert {
			s.Span = defaultSpan
			continue
		}

		if s.Span.IsRelative() {
			s.Span = s.Span.SetOffset(col)
		}

		if len(offsets) > 0 {
			start := s.Span.Raw().Start()
			size := s.Span.Size()
			oldShift := s.Span.Shift()
			mapped := start
			for j := 0; j < start && j < len(offsets); j++ {
				mapped += offsets[j]
			}
			for j := start; j < start+size && j < len(offsets); j++ {
				size += offsets[j]
			}
			s.Span = SpanFromSize(mapped, size).SetShift(oldShift)
		}

		if s.PatchKind == PatchInsert {
			size := len(s.PatchContent)
			s.Span = SpanFromSize(s.Span.Start(), size).SetShift(shift)
			shift += size
		} else {
			s.Span = s.Span.SetShift(shift)
		}
	}
	return defaultSpan
}

// normalizedSpan is one entry of the unique sorted span list: a
// disjoint span with the level that won it and the suggestion indices
// it covers.
type normalizedSpan struct {
	span      Span
	level     Level
	patchKind PatchKind
	ids       []int
}

// buildUniqueSortedSpans resolves suggestion overlaps into disjoint,
// sorted spans. When two spans fight over bytes, the numerically lower
// (more severe) level keeps them; Insert spans never interact here.
func buildUniqueSortedSpans(msg *Message) []normalizedSpan {
	if len(msg.Suggestions) == 0 || msg.Location.Line == "" {
		return nil
	}

	if len(msg.Suggestions) > 1 {
		for overlap := true; overlap; {
			overlap = false
			sort.SliceStable(msg.Suggestions, func(i, j int) bool {
				si, sj := msg.Suggestions[i], msg.Suggestions[j]
				if si.Span.Start() != sj.Span.Start() {
					return si.Span.Start() < sj.Span.Start()
				}
				if si.Span.End() != sj.Span.End() {
					return si.Span.End() < sj.Span.End()
				}
				return si.Level < sj.Level
			})

			for i := 0; i+1 < len(msg.Suggestions); i++ {
				lhs := &msg.Suggestions[i]
				rhs := &msg.Suggestions[i+1]
				if lhs.PatchKind == PatchInsert || rhs.PatchKind == PatchInsert {
					continue
				}

				rawL := lhs.Span.Raw()
				rawR := rhs.Span.Raw()
				if !lhs.Span.OutsideOf(rhs.Span) {
					overlap = true
				}

				if lhs.Level <= rhs.Level {
					start := rawR.Start()
					if rawL.End() > start {
						start = rawL.End()
					}
					lhs.Span = NewSpan(rawL.Start(), rawL.End()).SetShift(lhs.Span.Shift())
					rhs.Span = NewSpan(start, rawR.End()).SetShift(rhs.Span.Shift())
				} else {
					end := rawL.End()
					if rawR.Start() < end {
						end = rawR.Start()
					}
					lhs.Span = NewSpan(rawL.Start(), end).SetShift(lhs.Span.Shift())
					rhs.Span = NewSpan(rawR.Start(), rawR.End()).SetShift(rhs.Span.Shift())
				}
			}
		}
	}

	unique := []normalizedSpan{{
		span:      msg.Suggestions[0].Span,
		level:     msg.Suggestions[0].Level,
		patchKind: msg.Suggestions[0].PatchKind,
		ids:       []int{0},
	}}

	for i := 1; i < len(msg.Suggestions); i++ {
		el := msg.Suggestions[i]
		top := unique[len(unique)-1]
		unique = unique[:len(unique)-1]

		lhs, rhs := top.span.SplitIfIntersect(el.Span)
		level := top.level
		if el.Level < level {
			level = el.Level
		}

		switch {
		case lhs.IsValid() && rhs.IsValid():
			unique = append(unique, top)
			unique = append(unique, normalizedSpan{span: rhs, level: el.Level, patchKind: el.PatchKind, ids: []int{i}})
		case lhs.IsValid():
			top.span = lhs
			top.level = level
			top.ids = append(top.ids, i)
			unique = append(unique, top)
		default:
			top.span = rhs
			top.level = level
			top.ids = append(top.ids, i)
			unique = append(unique, top)
		}
	}

	return unique
}

// printLineNumber writes the gutter prefix " N | " (or a blank gutter
// when lineNumber is 0).
func (c *StreamConsumer) printLineNumber(lineNumber, width int) {
	if lineNumber == 0 {
		io.WriteString(c.w, strings.Repeat(" ", width))
		io.WriteString(c.w, c.gutterColor.Sprint(" | "))
		return
	}
	digits := numberWidth(lineNumber)
	if pad := width - digits; pad > 0 {
		io.WriteString(c.w, strings.Repeat(" ", pad))
	}
	io.WriteString(c.w, c.gutterBold.Sprint(itoa(lineNumber)))
	io.WriteString(c.w, c.gutterColor.Sprint(" | "))
}

// highlightContext prints the escaped source line with each resolved
// span colored by its level, then the caret row underneath.
func (c *StreamConsumer) highlightContext(
	loc Location,
	escapedLine string,
	gutterWidth int,
	suggestions []Suggestion,
	unique []normalizedSpan,
	defaultCtx normalizedSpan,
) {
	line := strings.TrimRight(escapedLine, " \t")
	c.printLineNumber(loc.LineNumber, gutterWidth)

	if line == "" {
		io.WriteString(c.w, "\n")
		return
	}

	spans := unique
	if len(spans) == 0 {
		if defaultCtx.span.Empty() {
			io.WriteString(c.w, line)
			io.WriteString(c.w, "\n")
			return
		}
		spans = []normalizedSpan{defaultCtx}
	}

	lastEnd := 0
	for _, sug := range spans {
		span := sug.span.Raw()
		if span.Empty() {
			continue
		}
		prefix := substr(line, lastEnd, span.Start())

		var highlight string
		if sug.patchKind == PatchInsert {
			if len(sug.ids) > 0 {
				highlight = suggestions[sug.ids[0]].PatchContent
			}
			lastEnd = span.Start()
		} else {
			highlight = substr(line, span.Start(), span.End())
			lastEnd = span.End()
		}

		if prefix != "" {
			io.WriteString(c.w, prefix)
		}
		if highlight != "" {
			io.WriteString(c.w, c.levelBold[sug.level].Sprint(highlight))
		}
	}
	if lastEnd < len(line) {
		io.WriteString(c.w, line[lastEnd:])
	}
	io.WriteString(c.w, "\n")

	// Caret row: ^~~~ underlines, + for inserts, - for removes.
	c.printLineNumber(0, gutterWidth)
	lastEnd = 0
	for _, sug := range spans {
		span := sug.span
		if span.Empty() {
			continue
		}
		if indent := span.Start() - lastEnd; indent > 0 {
			io.WriteString(c.w, strings.Repeat(" ", indent))
		}
		var marks strings.Builder
		for i := 0; i < span.Size(); i++ {
			switch {
			case sug.patchKind == PatchInsert:
				marks.WriteByte('+')
			case sug.patchKind == PatchRemove:
				marks.WriteByte('-')
			case i == 0:
				marks.WriteByte('^')
			default:
				marks.WriteByte('~')
			}
		}
		io.WriteString(c.w, c.levelBold[sug.level].Sprint(marks.String()))
		lastEnd = span.End()
	}
	io.WriteString(c.w, "\n")
}

func substr(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if start > len(s) {
		start = len(s)
	}
	if end > len(s) {
		end = len(s)
	}
	if end < start {
		end = start
	}
	return s[start:end]
}

func maxLineNumberWidth(coll *Collection) int {
	max := 0
	for _, m := range coll.Messages {
		if w := numberWidth(m.Location.LineNumber); w > max {
			max = w
		}
	}
	return max
}

func numberWidth(n int) int {
	digits := 0
	for n > 0 {
		n /= 10
		digits++
	}
	return digits
}
