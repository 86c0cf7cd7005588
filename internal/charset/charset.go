// Package charset provides the code-point classification tables used by
// the lexer: identifier start/continue, operator start/continue and the
// per-radix digit classes.
//
// The BMP predicates are backed by precomputed bit tables so that the
// hot-path lookup is a single array index; code points above the BMP go
// through a cheap range check.
package charset

// bitTable covers the Basic Multilingual Plane, one bit per code point.
type bitTable [0x10000 / 64]uint64

func (t *bitTable) set(lo, hi rune) {
	for c := lo; c <= hi; c++ {
		t[c>>6] |= 1 << (uint(c) & 63)
	}
}

func (t *bitTable) has(c rune) bool {
	return t[c>>6]&(1<<(uint(c)&63)) != 0
}

// Ranges follow N1518 (recommendations for extended identifier
// characters for C and C++), Annex X.1.
var identTable = func() *bitTable {
	t := &bitTable{}

	t.set('A', 'Z')
	t.set('a', 'z')
	t.set('0', '9')
	t.set('_', '_')
	t.set('$', '$')

	for _, c := range []rune{0x00A8, 0x00AA, 0x00AD, 0x00AF, 0x2054} {
		t.set(c, c)
	}

	ranges := [][2]rune{
		{0x00B2, 0x00B5}, {0x00B7, 0x00BA}, {0x00BC, 0x00BE},
		{0x00C0, 0x00D6}, {0x00D8, 0x00F6}, {0x00F8, 0x00FF},
		{0x0100, 0x167F}, {0x1681, 0x180D}, {0x180F, 0x1FFF},
		{0x200B, 0x200D}, {0x202A, 0x202E}, {0x203F, 0x2040},
		{0x2060, 0x206F}, {0x2070, 0x218F}, {0x2460, 0x24FF},
		{0x2776, 0x2793}, {0x2C00, 0x2DFF}, {0x2E80, 0x2FFF},
		{0x3004, 0x3007}, {0x3021, 0x302F}, {0x3031, 0x303F},
		{0x3040, 0xD7FF}, {0xF900, 0xFD3D}, {0xFD40, 0xFDCF},
		{0xFDF0, 0xFE44}, {0xFE47, 0xFFF8},
	}
	for _, r := range ranges {
		t.set(r[0], r[1])
	}
	return t
}()

// Unicode math, symbol, arrow, dingbat, and line/box drawing chars.
var operatorTable = func() *bitTable {
	t := &bitTable{}

	for _, c := range "/=-+*%<>!&|^~.?" {
		t.set(c, c)
	}

	for _, c := range []rune{
		0x00A9, 0x00AB, 0x00AC, 0x00AE, 0x00B0, 0x00B1,
		0x00B6, 0x00BB, 0x00BF, 0x00D7, 0x00F7, 0x2016, 0x2017,
	} {
		t.set(c, c)
	}

	ranges := [][2]rune{
		{0x00A1, 0x00A7},
		{0x2020, 0x2027}, {0x2030, 0x203E}, {0x2041, 0x2053},
		{0x2055, 0x205E}, {0x2190, 0x23FF}, {0x2500, 0x2775},
		{0x2794, 0x2BFF}, {0x2E00, 0x2E7F}, {0x3001, 0x3003},
		{0x3008, 0x3030},
	}
	for _, r := range ranges {
		t.set(r[0], r[1])
	}
	return t
}()

// IsIdentifierContinue reports whether c may appear after the first
// code point of an identifier.
func IsIdentifierContinue(c rune) bool {
	if c < 0x10000 {
		return identTable.has(c)
	}
	// Supplementary planes: everything through U+EFFFD except the
	// per-plane 0xFFFE/0xFFFF noncharacters.
	low := c & 0xFFFF
	return c <= 0xEFFFD && low != 0xFFFE && low != 0xFFFF
}

// IsIdentifierStart reports whether c may start an identifier. Digits,
// '$', and combining marks (N1518 Annex X.2) continue identifiers but
// cannot begin one.
func IsIdentifierStart(c rune) bool {
	if !IsIdentifierContinue(c) {
		return false
	}
	if IsDigit(c) || c == '$' {
		return false
	}
	switch {
	case c >= 0x0300 && c <= 0x036F,
		c >= 0x1DC0 && c <= 0x1DFF,
		c >= 0x20D0 && c <= 0x20FF,
		c >= 0xFE20 && c <= 0xFE2F:
		return false
	}
	return true
}

// IsOperatorContinue reports whether c may continue an operator token.
func IsOperatorContinue(c rune) bool {
	return c < 0x10000 && operatorTable.has(c)
}

// IsOperatorStart reports whether c may start an operator token.
// Combining marks and variation selectors glue onto a preceding
// operator code point.
func IsOperatorStart(c rune) bool {
	if IsOperatorContinue(c) {
		return true
	}
	switch {
	case c >= 0x0300 && c <= 0x036F,
		c >= 0x1DC0 && c <= 0x1DFF,
		c >= 0x20D0 && c <= 0x20FF,
		c >= 0xFE00 && c <= 0xFE0F,
		c >= 0xFE20 && c <= 0xFE2F,
		c >= 0xE0100 && c <= 0xE01EF:
		return true
	}
	return false
}

func IsAlpha(c rune) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func IsDigit(c rune) bool { return c >= '0' && c <= '9' }
func IsAlnum(c rune) bool { return IsAlpha(c) || IsDigit(c) }
func IsLower(c rune) bool { return c >= 'a' && c <= 'z' }

func IsOctDigit(c rune) bool { return c >= '0' && c <= '7' }
func IsHexDigit(c rune) bool {
	return IsDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func IsHorizontalSpace(c rune) bool { return c == ' ' || c == '\t' }
func IsVerticalSpace(c rune) bool   { return c == '\n' }
func IsSpace(c rune) bool           { return IsHorizontalSpace(c) || IsVerticalSpace(c) }

// Digit class tables for the numeric literal validator, indexed by the
// raw source byte.
var (
	BinaryDigits      = digitTable("01")
	OctalDigits       = digitTable("01234567")
	DecimalDigits     = digitTable("0123456789")
	HexadecimalDigits = digitTable("0123456789abcdefABCDEF")
)

func digitTable(digits string) *[256]bool {
	t := &[256]bool{}
	for _, c := range digits {
		t[c] = true
	}
	return t
}
