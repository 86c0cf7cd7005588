// Package lexer turns a source buffer into a TokenizedBuffer: packed
// tokens, a finalized line table, and interned literal values. The
// lexer recovers on every error; it always produces a usable buffer.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"

	"dusk/internal/charset"
	"dusk/internal/diag"
	"dusk/internal/source"
	"dusk/internal/store"
	"dusk/internal/token"
)

var (
	baseUnterminatedString = diag.Base{Kind: diag.UnterminatedString, Level: diag.Error,
		Format: "String is missing its closing `%s`."}
	baseUnrecognizedCharacter = diag.Base{Kind: diag.UnrecognizedCharacter, Level: diag.Error,
		Format: "Encountered unrecognized characters while parsing."}
	baseUnmatchedOpening = diag.Base{Kind: diag.UnmatchedOpeningBracket, Level: diag.Error,
		Format: "Opening symbol `%s` has no matching closing symbol."}
	baseUnmatchedClosing = diag.Base{Kind: diag.UnmatchedClosingBracket, Level: diag.Error,
		Format: "Closing symbol `%s` has no matching opening symbol."}
)

type lexState struct {
	buf     *TokenizedBuffer
	emitter *Emitter
	cursor  Cursor

	currentLine LineIndex
	lineStart   int
	indentSeen  bool

	// Open bracket tokens awaiting their partner.
	openGroups []TokenIndex
}

// Lex tokenizes src into a new TokenizedBuffer, interning values into
// values and reporting diagnostics to consumer. Lexing never fails:
// unclassifiable bytes become Error tokens and lexing continues.
func Lex(values *store.SharedValueStores, src *source.Buffer, consumer diag.Consumer) *TokenizedBuffer {
	buf := newTokenizedBuffer(values, src)
	tracker := diag.NewErrorTrackingConsumer(consumer)

	lx := &lexState{
		buf:    buf,
		cursor: NewCursor(src.Text()),
	}
	lx.emitter = diag.NewEmitter[SourceOffset](NewSourceConverter(buf), tracker)

	lx.run()

	buf.hasErrors = tracker.SeenError()
	return buf
}

func (lx *lexState) run() {
	lx.currentLine = lx.buf.addLine(LineInfo{Start: 0, Length: UnknownLineLength})
	lx.buf.AddToken(TokenInfo{Kind: token.FileStart, Line: lx.currentLine})

	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == '\n':
			lx.cursor.Bump()
			lx.finishLine(true)
			lx.markTrailingSpace()

		case b == ' ' || b == '\t':
			lx.cursor.Bump()
			lx.markTrailingSpace()

		case b == '/' && lx.peekSecond() == '/':
			lx.skipLineComment()
			lx.markTrailingSpace()

		case charset.IsDigit(rune(b)):
			lx.noteIndent()
			lx.scanNumber()

		case b == '"' || b == '\'' || b == '#':
			lx.noteIndent()
			if !lx.scanString() {
				lx.scanErrorRun()
			}

		case b == '_' || charset.IsAlpha(rune(b)) || b >= utf8.RuneSelf:
			lx.noteIndent()
			lx.scanIdentOrKeyword()

		default:
			lx.noteIndent()
			lx.scanSymbol()
		}
	}

	lx.finishLine(false)
	lx.closeDanglingGroups()
	lx.buf.AddToken(TokenInfo{Kind: token.FileEnd, Line: lx.currentLine})
}

func (lx *lexState) peekSecond() byte {
	_, b1, ok := lx.cursor.Peek2()
	if !ok {
		return 0
	}
	return b1
}

func (lx *lexState) column() int32 {
	col, err := safecast.Conv[int32](lx.cursor.Off() - lx.lineStart)
	if err != nil {
		panic(fmt.Errorf("column overflow: %w", err))
	}
	return col
}

// noteIndent records the line's indent the first time a
// non-whitespace byte appears on it.
func (lx *lexState) noteIndent() {
	if lx.indentSeen {
		return
	}
	lx.indentSeen = true
	lx.buf.lineInfo(lx.currentLine).Indent = lx.column()
}

// finishLine finalizes the current line's length. When a newline was
// just consumed the next line opens at the cursor; at end of file the
// line simply closes.
func (lx *lexState) finishLine(consumedNewline bool) {
	info := lx.buf.lineInfo(lx.currentLine)
	if info.Length != UnknownLineLength {
		return
	}
	end := lx.cursor.Off()
	if consumedNewline {
		end--
	}
	length, err := safecast.Conv[int32](end - lx.lineStart)
	if err != nil {
		panic(fmt.Errorf("line length overflow: %w", err))
	}
	info.Length = length

	if !consumedNewline {
		return
	}
	lx.lineStart = lx.cursor.Off()
	start, err := safecast.Conv[int32](lx.lineStart)
	if err != nil {
		panic(fmt.Errorf("line start overflow: %w", err))
	}
	lx.currentLine = lx.buf.addLine(LineInfo{Start: start, Length: UnknownLineLength})
	lx.indentSeen = false
}

func (lx *lexState) markTrailingSpace() {
	if n := len(lx.buf.tokens); n > 0 {
		lx.buf.tokens[n-1].HasTrailingSpace = true
	}
}

func (lx *lexState) skipLineComment() {
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
}

func (lx *lexState) scanIdentOrKeyword() {
	start := lx.cursor.Mark()
	col := lx.column()

	r, size := utf8.DecodeRuneInString(lx.cursor.Rest())
	if !charset.IsIdentifierStart(r) && r != '_' {
		lx.scanErrorRun()
		return
	}
	lx.cursor.BumpN(size)

	for !lx.cursor.EOF() {
		r, size := utf8.DecodeRuneInString(lx.cursor.Rest())
		if !charset.IsIdentifierContinue(r) {
			break
		}
		lx.cursor.BumpN(size)
	}

	text := lx.cursor.text[start:lx.cursor.Off()]
	if kind, ok := token.LookupKeyword(text); ok {
		lx.buf.AddToken(TokenInfo{Kind: kind, Line: lx.currentLine, Column: col})
		return
	}

	id := lx.buf.values.Identifiers().Add(text)
	lx.buf.AddToken(TokenInfo{
		Kind:    token.Identifier,
		Line:    lx.currentLine,
		Column:  col,
		Payload: int32(id),
	})
}

func (lx *lexState) scanNumber() {
	col := lx.column()
	offset := SourceOffset(lx.cursor.Off())

	lit, ok := LexNumericLiteral(lx.cursor.Rest())
	if !ok {
		lx.scanErrorRun()
		return
	}
	lx.cursor.BumpN(len(lit.Source()))

	switch v := lit.ComputeValue(lx.emitter, offset).(type) {
	case IntValue:
		id := lx.buf.values.Ints().Add(v.Value)
		lx.buf.AddToken(TokenInfo{
			Kind:    token.IntLiteral,
			Line:    lx.currentLine,
			Column:  col,
			Payload: int32(id),
		})
	case RealValue:
		id := lx.buf.values.Reals().Add(store.Real{
			Mantissa:  v.Mantissa,
			Exponent:  v.Exponent,
			IsDecimal: v.Radix == Decimal,
		})
		lx.buf.AddToken(TokenInfo{
			Kind:    token.RealLiteral,
			Line:    lx.currentLine,
			Column:  col,
			Payload: int32(id),
		})
	default:
		length, err := safecast.Conv[int32](len(lit.Source()))
		if err != nil {
			panic(fmt.Errorf("error length overflow: %w", err))
		}
		lx.buf.AddToken(TokenInfo{
			Kind:    token.Error,
			Line:    lx.currentLine,
			Column:  col,
			Payload: length,
		})
	}
}

// scanString lexes a string literal at the cursor. Returns false when
// the cursor does not actually start one (a lone '#' or '\'').
func (lx *lexState) scanString() bool {
	col := lx.column()
	offset := SourceOffset(lx.cursor.Off())

	lit, ok := LexStringLiteral(lx.cursor.Rest())
	if !ok {
		return false
	}
	lx.cursor.BumpN(len(lit.Source()))

	if !lit.IsTerminated() {
		terminator := `"`
		switch lit.kind {
		case reflection:
			terminator = reflectionIndicator
		case reflectionDoubleQuotes:
			terminator = reflectionIndicatorDuo
		}
		terminator += strings.Repeat("#", lit.HashLevel())
		lx.emitter.Emit(offset, baseUnterminatedString, terminator)
	}

	// Multi-line literals advance the line table first, so value
	// computation can report into their later lines.
	startLine := lx.currentLine
	lx.registerLiteralLines(lit.Source(), int(offset))

	value := lit.ComputeValue(&lx.buf.arena, lx.emitter, offset)
	id := lx.buf.values.StringLiterals().Add(value)

	lx.buf.AddToken(TokenInfo{
		Kind:    token.StringLiteral,
		Line:    startLine,
		Column:  col,
		Payload: int32(id),
	})
	return true
}

// registerLiteralLines finalizes the lines a multi-line literal
// spans, so later columns stay correct.
func (lx *lexState) registerLiteralLines(text string, startOff int) {
	searchFrom := 0
	for {
		idx := strings.IndexByte(text[searchFrom:], '\n')
		if idx < 0 {
			return
		}
		newlineAt := startOff + searchFrom + idx

		info := lx.buf.lineInfo(lx.currentLine)
		length, err := safecast.Conv[int32](newlineAt - lx.lineStart)
		if err != nil {
			panic(fmt.Errorf("line length overflow: %w", err))
		}
		info.Length = length

		lx.lineStart = newlineAt + 1
		start, err := safecast.Conv[int32](lx.lineStart)
		if err != nil {
			panic(fmt.Errorf("line start overflow: %w", err))
		}
		lx.currentLine = lx.buf.addLine(LineInfo{Start: start, Length: UnknownLineLength})
		lx.indentSeen = true

		searchFrom += idx + 1
	}
}

func (lx *lexState) scanSymbol() {
	col := lx.column()
	rest := lx.cursor.Rest()

	for _, kind := range token.SymbolsByLength() {
		spelling := kind.FixedSpelling()
		if !strings.HasPrefix(rest, spelling) {
			continue
		}
		lx.cursor.BumpN(len(spelling))

		switch {
		case kind.IsOpeningSymbol():
			idx := lx.buf.AddToken(TokenInfo{Kind: kind, Line: lx.currentLine, Column: col})
			lx.openGroups = append(lx.openGroups, idx)
		case kind.IsClosingSymbol():
			lx.closeGroup(kind, col)
		default:
			lx.buf.AddToken(TokenInfo{Kind: kind, Line: lx.currentLine, Column: col})
		}
		return
	}

	lx.scanErrorRun()
}

// closeGroup matches a closing bracket against the innermost open
// one. A mismatch becomes a recovery token that points at itself.
func (lx *lexState) closeGroup(kind token.Kind, col int32) {
	if n := len(lx.openGroups); n > 0 {
		openIdx := lx.openGroups[n-1]
		if lx.buf.Kind(openIdx) == kind.OpeningKind() {
			lx.openGroups = lx.openGroups[:n-1]
			closeIdx := lx.buf.AddToken(TokenInfo{
				Kind:    kind,
				Line:    lx.currentLine,
				Column:  col,
				Payload: int32(openIdx),
			})
			lx.buf.tokenInfo(openIdx).Payload = int32(closeIdx)
			return
		}
	}

	offset := SourceOffset(int(lx.lineStart) + int(col))
	lx.emitter.Emit(offset, baseUnmatchedClosing, kind.FixedSpelling())
	closeIdx := lx.buf.AddToken(TokenInfo{
		Kind:       kind,
		Line:       lx.currentLine,
		Column:     col,
		IsRecovery: true,
	})
	lx.buf.tokenInfo(closeIdx).Payload = int32(closeIdx)
}

// closeDanglingGroups reports brackets left open at end of file; each
// becomes its own partner so the pairing accessors stay total.
func (lx *lexState) closeDanglingGroups() {
	for i := len(lx.openGroups) - 1; i >= 0; i-- {
		openIdx := lx.openGroups[i]
		info := lx.buf.tokenInfo(openIdx)
		offset := SourceOffset(int(lx.buf.lineInfo(info.Line).Start) + int(info.Column))
		lx.emitter.Emit(offset, baseUnmatchedOpening, info.Kind.FixedSpelling())
		info.IsRecovery = true
		info.Payload = int32(openIdx)
	}
	lx.openGroups = nil
}

// scanErrorRun consumes a maximal run of bytes that start no token and
// records a single Error token spanning them.
func (lx *lexState) scanErrorRun() {
	col := lx.column()
	start := lx.cursor.Off()
	offset := SourceOffset(start)

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || b == ' ' || b == '\t' || b == '"' ||
			charset.IsDigit(rune(b)) || charset.IsAlpha(rune(b)) || b == '_' {
			break
		}
		if startsSymbol(lx.cursor.Rest()) {
			break
		}
		_, size := utf8.DecodeRuneInString(lx.cursor.Rest())
		lx.cursor.BumpN(size)
	}
	if lx.cursor.Off() == start {
		// Never loop without consuming.
		lx.cursor.Bump()
	}

	length, err := safecast.Conv[int32](lx.cursor.Off() - start)
	if err != nil {
		panic(fmt.Errorf("error length overflow: %w", err))
	}

	lx.emitter.Build(offset, baseUnrecognizedCharacter).
		SetSpanLength(int(length)).
		Emit()
	lx.buf.AddToken(TokenInfo{
		Kind:    token.Error,
		Line:    lx.currentLine,
		Column:  col,
		Payload: length,
	})
}

func startsSymbol(rest string) bool {
	for _, kind := range token.SymbolsByLength() {
		if strings.HasPrefix(rest, kind.FixedSpelling()) {
			return true
		}
	}
	return false
}
