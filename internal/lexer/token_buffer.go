package lexer

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"fortio.org/safecast"

	"dusk/internal/diag"
	"dusk/internal/source"
	"dusk/internal/store"
	"dusk/internal/token"
)

// TokenIndex identifies a token within one TokenizedBuffer.
type TokenIndex int32

// LineIndex identifies a source line within one TokenizedBuffer.
type LineIndex int32

const (
	InvalidTokenIndex TokenIndex = -1
	InvalidLineIndex  LineIndex  = -1
)

func (t TokenIndex) IsValid() bool { return t >= 0 }
func (l LineIndex) IsValid() bool  { return l >= 0 }

// UnknownLineLength marks a line whose end has not been lexed yet.
// Every line is finalized before lexing completes.
const UnknownLineLength = int32(math.MaxInt32)

// TokenInfo is the packed per-token record. Payload is a tagged handle
// keyed by Kind: identifier, string literal, int, or real handle, the
// matched bracket's token index, or the error length in bytes.
type TokenInfo struct {
	Kind             token.Kind
	HasTrailingSpace bool
	IsRecovery       bool
	Line             LineIndex
	Column           int32 // 0-based byte column
	Payload          int32
}

// LineInfo records one source line.
type LineInfo struct {
	Start  int32 // byte offset of the line's first character
	Length int32 // byte count, or UnknownLineLength while lexing
	Indent int32 // 0-based column of the first non-whitespace byte
}

// TokenizedBuffer owns the tokens and lines of one lexed source
// buffer. It references, but does not own, the source bytes and the
// shared value stores; both outlive it.
type TokenizedBuffer struct {
	arena  Arena
	values *store.SharedValueStores
	src    *source.Buffer

	tokens []TokenInfo
	lines  []LineInfo

	expectedParseTreeSize int
	hasErrors             bool
}

func newTokenizedBuffer(values *store.SharedValueStores, src *source.Buffer) *TokenizedBuffer {
	return &TokenizedBuffer{values: values, src: src}
}

// AddToken appends info and returns its index; the running expected
// parse-tree size grows by the kind's per-token estimate.
func (b *TokenizedBuffer) AddToken(info TokenInfo) TokenIndex {
	raw, err := safecast.Conv[int32](len(b.tokens))
	if err != nil {
		panic(fmt.Errorf("token index overflow: %w", err))
	}
	b.tokens = append(b.tokens, info)
	b.expectedParseTreeSize += info.Kind.ExpectedParseTreeSize()
	return TokenIndex(raw)
}

func (b *TokenizedBuffer) addLine(info LineInfo) LineIndex {
	raw, err := safecast.Conv[int32](len(b.lines))
	if err != nil {
		panic(fmt.Errorf("line index overflow: %w", err))
	}
	b.lines = append(b.lines, info)
	return LineIndex(raw)
}

func (b *TokenizedBuffer) tokenInfo(t TokenIndex) *TokenInfo {
	return &b.tokens[t]
}

func (b *TokenizedBuffer) lineInfo(l LineIndex) *LineInfo {
	return &b.lines[l]
}

func (b *TokenizedBuffer) Len() int       { return len(b.tokens) }
func (b *TokenizedBuffer) LineCount() int { return len(b.lines) }

func (b *TokenizedBuffer) Kind(t TokenIndex) token.Kind { return b.tokenInfo(t).Kind }
func (b *TokenizedBuffer) Line(t TokenIndex) LineIndex  { return b.tokenInfo(t).Line }

// LineNumber returns the 1-based line number.
func (b *TokenizedBuffer) LineNumber(l LineIndex) int { return int(l) + 1 }

// TokenLineNumber returns the 1-based line number of t.
func (b *TokenizedBuffer) TokenLineNumber(t TokenIndex) int {
	return b.LineNumber(b.Line(t))
}

// ColumnNumber returns the 1-based column of t.
func (b *TokenizedBuffer) ColumnNumber(t TokenIndex) int {
	col := b.tokenInfo(t).Column
	if col < 0 {
		col = 0
	}
	return int(col) + 1
}

// IndentColumnNumber returns the 1-based indent column of line l.
func (b *TokenizedBuffer) IndentColumnNumber(l LineIndex) int {
	return int(b.lineInfo(l).Indent) + 1
}

func (b *TokenizedBuffer) Identifier(t TokenIndex) store.IdentifierID {
	return store.IdentifierID(b.tokenInfo(t).Payload)
}

func (b *TokenizedBuffer) IntLiteral(t TokenIndex) store.IntID {
	return store.IntID(b.tokenInfo(t).Payload)
}

func (b *TokenizedBuffer) RealLiteral(t TokenIndex) store.RealID {
	return store.RealID(b.tokenInfo(t).Payload)
}

func (b *TokenizedBuffer) StringLiteralValue(t TokenIndex) store.StringLiteralID {
	return store.StringLiteralID(b.tokenInfo(t).Payload)
}

func (b *TokenizedBuffer) errorLength(t TokenIndex) int {
	return int(b.tokenInfo(t).Payload)
}

// MatchedClosingToken returns the closing partner of an opening
// bracket token.
func (b *TokenizedBuffer) MatchedClosingToken(opening TokenIndex) TokenIndex {
	info := b.tokenInfo(opening)
	if !info.Kind.IsOpeningSymbol() {
		panic("lexer: token is not an opening symbol")
	}
	return TokenIndex(info.Payload)
}

// MatchedOpeningToken returns the opening partner of a closing
// bracket token.
func (b *TokenizedBuffer) MatchedOpeningToken(closing TokenIndex) TokenIndex {
	info := b.tokenInfo(closing)
	if !info.Kind.IsClosingSymbol() {
		panic("lexer: token is not a closing symbol")
	}
	return TokenIndex(info.Payload)
}

func (b *TokenizedBuffer) HasTrailingWhitespace(t TokenIndex) bool {
	return b.tokenInfo(t).HasTrailingSpace
}

func (b *TokenizedBuffer) HasLeadingWhitespace(t TokenIndex) bool {
	return t == 0 || b.tokenInfo(t-1).HasTrailingSpace
}

func (b *TokenizedBuffer) IsRecoveryToken(t TokenIndex) bool {
	return b.tokenInfo(t).IsRecovery
}

func (b *TokenizedBuffer) NextLine(l LineIndex) LineIndex {
	next := l + 1
	if int(next) >= len(b.lines) {
		panic("lexer: line index overflow")
	}
	return next
}

func (b *TokenizedBuffer) PrevLine(l LineIndex) LineIndex {
	if l <= 0 {
		panic("lexer: line index underflow")
	}
	return l - 1
}

func (b *TokenizedBuffer) HasErrors() bool             { return b.hasErrors }
func (b *TokenizedBuffer) ExpectedParseTreeSize() int  { return b.expectedParseTreeSize }
func (b *TokenizedBuffer) Source() *source.Buffer      { return b.src }
func (b *TokenizedBuffer) Values() *store.SharedValueStores { return b.values }

// GetTokenText returns the exact source spelling of t. Symbols and
// keywords come from the kind table; literals re-run their recognizer
// on the source, which must succeed; identifiers come from the value
// store.
func (b *TokenizedBuffer) GetTokenText(t TokenIndex) string {
	info := b.tokenInfo(t)
	if spelling := info.Kind.FixedSpelling(); spelling != "" {
		return spelling
	}

	text := b.src.Text()

	switch {
	case info.Kind == token.Error:
		start := int(b.lineInfo(info.Line).Start) + int(info.Column)
		return text[start : start+b.errorLength(t)]

	case info.Kind == token.IntLiteral || info.Kind == token.RealLiteral:
		start := int(b.lineInfo(info.Line).Start) + int(info.Column)
		lit, ok := LexNumericLiteral(text[start:])
		if !ok {
			panic(fmt.Sprintf("%s:%d:%d: could not reconstruct the numeric literal",
				b.src.Filename(), b.lineInfo(info.Line).Start, info.Column))
		}
		return lit.Source()

	case info.Kind == token.StringLiteral:
		start := int(b.lineInfo(info.Line).Start) + int(info.Column)
		lit, ok := LexStringLiteral(text[start:])
		if !ok {
			panic(fmt.Sprintf("%s:%d:%d: could not reconstruct the string literal",
				b.src.Filename(), b.lineInfo(info.Line).Start, info.Column))
		}
		return lit.Source()

	case info.Kind == token.FileStart || info.Kind == token.FileEnd:
		return ""
	}

	if info.Kind != token.Identifier {
		panic(fmt.Sprintf("lexer: unexpected kind %v in GetTokenText", info.Kind))
	}
	return b.values.Identifiers().Get(b.Identifier(t))
}

// GetEndLoc returns the line and 1-based column just past the token,
// accounting for newlines inside multi-line literals.
func (b *TokenizedBuffer) GetEndLoc(t TokenIndex) (LineIndex, int) {
	line := b.Line(t)
	column := b.ColumnNumber(t)
	text := b.GetTokenText(t)

	if idx := strings.LastIndexByte(text, '\n'); idx < 0 {
		column += len(text)
	} else {
		line += LineIndex(strings.Count(text[:idx], "\n")) + 1
		column = 1 + len(text[idx+1:])
	}
	return line, column
}

// SourceConverter resolves byte offsets against the buffer's line
// table.
type SourceConverter struct {
	buffer *TokenizedBuffer
}

func NewSourceConverter(buffer *TokenizedBuffer) SourceConverter {
	return SourceConverter{buffer: buffer}
}

func (c SourceConverter) ConvertLoc(off SourceOffset, _ diag.ContextFn) diag.Location {
	b := c.buffer
	text := b.src.Text()
	if off < 0 || int(off) > len(text) {
		panic(fmt.Sprintf("lexer: offset %d outside the source buffer", off))
	}

	// Последняя строка с line.Start <= off.
	idx := sort.Search(len(b.lines), func(i int) bool {
		return int32(off) < b.lines[i].Start
	})
	if idx == 0 {
		panic("lexer: offset before the first line")
	}
	idx--

	lineInfo := b.lines[idx]
	column := int(off) - int(lineInfo.Start)

	end := len(text)
	if lineInfo.Length != UnknownLineLength {
		end = int(lineInfo.Start) + int(lineInfo.Length)
	}
	line := text[lineInfo.Start:end]

	if lineInfo.Length == UnknownLineLength {
		// Line is still being lexed; clamp at the next newline.
		if pos := strings.IndexByte(line[column:], '\n'); pos >= 0 {
			line = line[:column+pos]
		}
	}

	return diag.Location{
		Filename:     b.src.Filename(),
		Line:         line,
		LineNumber:   idx + 1,
		ColumnNumber: column + 1,
		Length:       1,
	}
}

// TokenConverter resolves token indices by composing through the
// source-offset converter.
type TokenConverter struct {
	buffer *TokenizedBuffer
}

func NewTokenConverter(buffer *TokenizedBuffer) TokenConverter {
	return TokenConverter{buffer: buffer}
}

func (c TokenConverter) ConvertLoc(t TokenIndex, ctx diag.ContextFn) diag.Location {
	b := c.buffer
	info := b.tokenInfo(t)
	start := SourceOffset(b.lineInfo(info.Line).Start) + SourceOffset(info.Column)

	loc := SourceConverter{buffer: b}.ConvertLoc(start, ctx)
	loc.Length = len(b.GetTokenText(t))
	return loc
}

// printWidths tracks column widths for the aligned debug dump.
type printWidths struct {
	index, kind, line, column, indent int
}

func (w *printWidths) widen(other printWidths) {
	if other.index > w.index {
		w.index = other.index
	}
	if other.kind > w.kind {
		w.kind = other.kind
	}
	if other.line > w.line {
		w.line = other.line
	}
	if other.column > w.column {
		w.column = other.column
	}
	if other.indent > w.indent {
		w.indent = other.indent
	}
}

func digitCount(n int) int {
	digits := 1
	for n > 0 {
		n /= 10
		digits++
	}
	return digits
}

func (b *TokenizedBuffer) printWidthsFor(t TokenIndex) printWidths {
	return printWidths{
		index:  digitCount(len(b.tokens)),
		kind:   len(b.Kind(t).Name()),
		line:   digitCount(int(b.Line(t))),
		column: digitCount(b.ColumnNumber(t)),
		indent: digitCount(b.IndentColumnNumber(b.Line(t))),
	}
}

// PrintToken writes one token's debug line.
func (b *TokenizedBuffer) PrintToken(w io.Writer, t TokenIndex) {
	b.printToken(w, t, printWidths{})
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func (b *TokenizedBuffer) printToken(w io.Writer, t TokenIndex, widths printWidths) {
	widths.widen(b.printWidthsFor(t))
	info := b.tokenInfo(t)
	text := b.GetTokenText(t)

	fmt.Fprintf(w, "    { index: %s, kind: %s, line: %s, column: %s, indent: %s, spelling: '%s'",
		padLeft(itoa(int(t)), widths.index),
		padLeft("'"+info.Kind.Name()+"'", widths.kind+2),
		padLeft(itoa(b.TokenLineNumber(t)), widths.line),
		padLeft(itoa(b.ColumnNumber(t)), widths.column),
		padLeft(itoa(b.IndentColumnNumber(info.Line)), widths.indent),
		text,
	)

	switch info.Kind {
	case token.Identifier:
		fmt.Fprintf(w, ", identifier: %d", int32(b.Identifier(t)))
	case token.IntLiteral:
		fmt.Fprintf(w, ", value: `%s`", b.values.Ints().Get(b.IntLiteral(t)).String())
	case token.RealLiteral:
		fmt.Fprintf(w, ", value: `%s`", b.values.Reals().Get(b.RealLiteral(t)).String())
	case token.StringLiteral:
		fmt.Fprintf(w, ", value: `%s`", b.values.StringLiterals().Get(b.StringLiteralValue(t)))
	default:
		if info.Kind.IsOpeningSymbol() {
			fmt.Fprintf(w, ", closing_token: %d", info.Payload)
		} else if info.Kind.IsClosingSymbol() {
			fmt.Fprintf(w, ", opening_token: %d", info.Payload)
		}
	}

	if info.HasTrailingSpace {
		io.WriteString(w, ", trailing_space: true")
	}
	if info.IsRecovery {
		io.WriteString(w, ", recovery: true")
	}
	io.WriteString(w, " }")
}

// Print writes the whole buffer as an aligned debug dump.
func (b *TokenizedBuffer) Print(w io.Writer) {
	if len(b.tokens) == 0 {
		return
	}

	fmt.Fprintf(w, "- filename: %s\n  tokens: [\n", b.src.Filename())

	widths := printWidths{index: digitCount(len(b.tokens))}
	for i := range b.tokens {
		widths.widen(b.printWidthsFor(TokenIndex(i)))
	}
	for i := range b.tokens {
		b.printToken(w, TokenIndex(i), widths)
		io.WriteString(w, "\n")
	}

	io.WriteString(w, "  ]\n")
}
