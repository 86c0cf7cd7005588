// Package token defines the token kinds of the Dusk language and the
// per-kind attribute table the lexer and parser consult.
package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// FileStart is the synthetic first token of every buffer.
	FileStart Kind = iota
	// FileEnd is the synthetic last token of every buffer.
	FileEnd
	// Error covers bytes the lexer could not classify; its payload is
	// the error length in bytes.
	Error

	// Identifier is a name token; its payload is an identifier handle.
	Identifier
	// IntLiteral is an integer literal; its payload is an int handle.
	IntLiteral
	// RealLiteral is a real number literal; its payload is a real handle.
	RealLiteral
	// StringLiteral is a string literal of any flavor (single-line,
	// multi-line, raw, reflection); its payload is a string handle.
	StringLiteral

	// Grouping symbols. Openers and closers carry the token index of
	// their matched partner.

	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace

	// Symbols, longest spelling first within a shared prefix.

	ArrowRight   // ->
	FatArrow     // =>
	EqualEqual   // ==
	NotEqual     // !=
	LessEqual    // <=
	GreaterEqual // >=
	LessLess     // <<
	GreaterGreater // >>
	AmpAmp       // &&
	PipePipe     // ||
	DotDot       // ..
	ColonColon   // ::
	Assign       // =
	Plus         // +
	Minus        // -
	Star         // *
	Slash        // /
	Percent      // %
	Amp          // &
	Pipe         // |
	Caret        // ^
	Tilde        // ~
	Bang         // !
	Question     // ?
	Less         // <
	Greater      // >
	Dot          // .
	Comma        // ,
	Colon        // :
	Semi         // ;
	At           // @

	// Keywords.

	KwAnd
	KwAs
	KwBreak
	KwConst
	KwContinue
	KwElse
	KwEnum
	KwFalse
	KwFn
	KwFor
	KwIf
	KwImport
	KwIn
	KwInterface
	KwLet
	KwMatch
	KwNot
	KwOr
	KwPub
	KwReturn
	KwStruct
	KwTrue
	KwType
	KwVar
	KwWhile

	kindCount
)

type kindFlags uint8

const (
	flagSymbol kindFlags = 1 << iota
	flagKeyword
	flagOpening
	flagClosing
	flagLiteral
)

// kindInfo is one row of the attribute table, indexed by the numeric
// discriminant.
type kindInfo struct {
	name          string
	spelling      string
	flags         kindFlags
	parseTreeSize int8
	partner       Kind
}

var kinds = [kindCount]kindInfo{
	FileStart: {name: "FileStart", parseTreeSize: 1},
	FileEnd:   {name: "FileEnd", parseTreeSize: 1},
	Error:     {name: "Error"},

	Identifier:    {name: "Identifier", parseTreeSize: 1},
	IntLiteral:    {name: "IntLiteral", flags: flagLiteral, parseTreeSize: 1},
	RealLiteral:   {name: "RealLiteral", flags: flagLiteral, parseTreeSize: 1},
	StringLiteral: {name: "StringLiteral", flags: flagLiteral, parseTreeSize: 1},

	LParen:   {name: "LParen", spelling: "(", flags: flagSymbol | flagOpening, parseTreeSize: 1, partner: RParen},
	RParen:   {name: "RParen", spelling: ")", flags: flagSymbol | flagClosing, parseTreeSize: 1, partner: LParen},
	LBracket: {name: "LBracket", spelling: "[", flags: flagSymbol | flagOpening, parseTreeSize: 1, partner: RBracket},
	RBracket: {name: "RBracket", spelling: "]", flags: flagSymbol | flagClosing, parseTreeSize: 1, partner: LBracket},
	LBrace:   {name: "LBrace", spelling: "{", flags: flagSymbol | flagOpening, parseTreeSize: 1, partner: RBrace},
	RBrace:   {name: "RBrace", spelling: "}", flags: flagSymbol | flagClosing, parseTreeSize: 1, partner: LBrace},

	ArrowRight:     {name: "ArrowRight", spelling: "->", flags: flagSymbol, parseTreeSize: 1},
	FatArrow:       {name: "FatArrow", spelling: "=>", flags: flagSymbol, parseTreeSize: 1},
	EqualEqual:     {name: "EqualEqual", spelling: "==", flags: flagSymbol, parseTreeSize: 1},
	NotEqual:       {name: "NotEqual", spelling: "!=", flags: flagSymbol, parseTreeSize: 1},
	LessEqual:      {name: "LessEqual", spelling: "<=", flags: flagSymbol, parseTreeSize: 1},
	GreaterEqual:   {name: "GreaterEqual", spelling: ">=", flags: flagSymbol, parseTreeSize: 1},
	LessLess:       {name: "LessLess", spelling: "<<", flags: flagSymbol, parseTreeSize: 1},
	GreaterGreater: {name: "GreaterGreater", spelling: ">>", flags: flagSymbol, parseTreeSize: 1},
	AmpAmp:         {name: "AmpAmp", spelling: "&&", flags: flagSymbol, parseTreeSize: 1},
	PipePipe:       {name: "PipePipe", spelling: "||", flags: flagSymbol, parseTreeSize: 1},
	DotDot:         {name: "DotDot", spelling: "..", flags: flagSymbol, parseTreeSize: 1},
	ColonColon:     {name: "ColonColon", spelling: "::", flags: flagSymbol, parseTreeSize: 1},
	Assign:         {name: "Assign", spelling: "=", flags: flagSymbol, parseTreeSize: 1},
	Plus:           {name: "Plus", spelling: "+", flags: flagSymbol, parseTreeSize: 1},
	Minus:          {name: "Minus", spelling: "-", flags: flagSymbol, parseTreeSize: 1},
	Star:           {name: "Star", spelling: "*", flags: flagSymbol, parseTreeSize: 1},
	Slash:          {name: "Slash", spelling: "/", flags: flagSymbol, parseTreeSize: 1},
	Percent:        {name: "Percent", spelling: "%", flags: flagSymbol, parseTreeSize: 1},
	Amp:            {name: "Amp", spelling: "&", flags: flagSymbol, parseTreeSize: 1},
	Pipe:           {name: "Pipe", spelling: "|", flags: flagSymbol, parseTreeSize: 1},
	Caret:          {name: "Caret", spelling: "^", flags: flagSymbol, parseTreeSize: 1},
	Tilde:          {name: "Tilde", spelling: "~", flags: flagSymbol, parseTreeSize: 1},
	Bang:           {name: "Bang", spelling: "!", flags: flagSymbol, parseTreeSize: 1},
	Question:       {name: "Question", spelling: "?", flags: flagSymbol, parseTreeSize: 1},
	Less:           {name: "Less", spelling: "<", flags: flagSymbol, parseTreeSize: 1},
	Greater:        {name: "Greater", spelling: ">", flags: flagSymbol, parseTreeSize: 1},
	Dot:            {name: "Dot", spelling: ".", flags: flagSymbol, parseTreeSize: 1},
	Comma:          {name: "Comma", spelling: ",", flags: flagSymbol},
	Colon:          {name: "Colon", spelling: ":", flags: flagSymbol, parseTreeSize: 1},
	Semi:           {name: "Semi", spelling: ";", flags: flagSymbol, parseTreeSize: 1},
	At:             {name: "At", spelling: "@", flags: flagSymbol, parseTreeSize: 1},

	KwAnd:       {name: "KwAnd", spelling: "and", flags: flagKeyword, parseTreeSize: 1},
	KwAs:        {name: "KwAs", spelling: "as", flags: flagKeyword, parseTreeSize: 1},
	KwBreak:     {name: "KwBreak", spelling: "break", flags: flagKeyword, parseTreeSize: 1},
	KwConst:     {name: "KwConst", spelling: "const", flags: flagKeyword, parseTreeSize: 2},
	KwContinue:  {name: "KwContinue", spelling: "continue", flags: flagKeyword, parseTreeSize: 1},
	KwElse:      {name: "KwElse", spelling: "else", flags: flagKeyword, parseTreeSize: 2},
	KwEnum:      {name: "KwEnum", spelling: "enum", flags: flagKeyword, parseTreeSize: 2},
	KwFalse:     {name: "KwFalse", spelling: "false", flags: flagKeyword, parseTreeSize: 1},
	KwFn:        {name: "KwFn", spelling: "fn", flags: flagKeyword, parseTreeSize: 3},
	KwFor:       {name: "KwFor", spelling: "for", flags: flagKeyword, parseTreeSize: 3},
	KwIf:        {name: "KwIf", spelling: "if", flags: flagKeyword, parseTreeSize: 2},
	KwImport:    {name: "KwImport", spelling: "import", flags: flagKeyword, parseTreeSize: 2},
	KwIn:        {name: "KwIn", spelling: "in", flags: flagKeyword, parseTreeSize: 1},
	KwInterface: {name: "KwInterface", spelling: "interface", flags: flagKeyword, parseTreeSize: 2},
	KwLet:       {name: "KwLet", spelling: "let", flags: flagKeyword, parseTreeSize: 2},
	KwMatch:     {name: "KwMatch", spelling: "match", flags: flagKeyword, parseTreeSize: 2},
	KwNot:       {name: "KwNot", spelling: "not", flags: flagKeyword, parseTreeSize: 1},
	KwOr:        {name: "KwOr", spelling: "or", flags: flagKeyword, parseTreeSize: 1},
	KwPub:       {name: "KwPub", spelling: "pub", flags: flagKeyword, parseTreeSize: 1},
	KwReturn:    {name: "KwReturn", spelling: "return", flags: flagKeyword, parseTreeSize: 2},
	KwStruct:    {name: "KwStruct", spelling: "struct", flags: flagKeyword, parseTreeSize: 2},
	KwTrue:      {name: "KwTrue", spelling: "true", flags: flagKeyword, parseTreeSize: 1},
	KwType:      {name: "KwType", spelling: "type", flags: flagKeyword, parseTreeSize: 2},
	KwVar:       {name: "KwVar", spelling: "var", flags: flagKeyword, parseTreeSize: 2},
	KwWhile:     {name: "KwWhile", spelling: "while", flags: flagKeyword, parseTreeSize: 2},
}

// Name returns the enumerator name, e.g. "IntLiteral".
func (k Kind) Name() string {
	if k < kindCount {
		return kinds[k].name
	}
	return "Invalid"
}

func (k Kind) String() string { return k.Name() }

// FixedSpelling returns the exact source spelling for symbols and
// keywords, and "" for everything else.
func (k Kind) FixedSpelling() string {
	if k < kindCount {
		return kinds[k].spelling
	}
	return ""
}

func (k Kind) IsSymbol() bool  { return k < kindCount && kinds[k].flags&flagSymbol != 0 }
func (k Kind) IsKeyword() bool { return k < kindCount && kinds[k].flags&flagKeyword != 0 }
func (k Kind) IsLiteral() bool { return k < kindCount && kinds[k].flags&flagLiteral != 0 }

func (k Kind) IsOpeningSymbol() bool { return k < kindCount && kinds[k].flags&flagOpening != 0 }
func (k Kind) IsClosingSymbol() bool { return k < kindCount && kinds[k].flags&flagClosing != 0 }
func (k Kind) IsGroupingSymbol() bool {
	return k.IsOpeningSymbol() || k.IsClosingSymbol()
}

// ClosingKind returns the partner kind for an opening symbol.
func (k Kind) ClosingKind() Kind {
	if !k.IsOpeningSymbol() {
		panic("token: kind is not an opening symbol")
	}
	return kinds[k].partner
}

// OpeningKind returns the partner kind for a closing symbol.
func (k Kind) OpeningKind() Kind {
	if !k.IsClosingSymbol() {
		panic("token: kind is not a closing symbol")
	}
	return kinds[k].partner
}

// ExpectedParseTreeSize is the parse-tree node count the downstream
// parser reserves per token of this kind.
func (k Kind) ExpectedParseTreeSize() int {
	if k < kindCount {
		return int(kinds[k].parseTreeSize)
	}
	return 0
}

func (k Kind) IsOneOf(candidates ...Kind) bool {
	for _, c := range candidates {
		if k == c {
			return true
		}
	}
	return false
}

// KindCount is the number of defined kinds; used by tables indexed by
// kind.
const KindCount = int(kindCount)
