package diag

// Kind is the stable identifier for a class of diagnostics. Every
// emitted diagnostic carries one; tooling matches on the name, so
// entries are append-only.
type Kind uint16

const (
	UnknownKind Kind = iota

	// I/O
	ErrorOpeningFile
	ErrorStattingFile
	ErrorReadingFile
	FileTooLarge

	// Digits
	InvalidDigit
	InvalidDigitSeparator
	IrregularDigitSeparators
	EmptyDigitSequence
	UnknownBaseSpecifier

	// Real numbers
	BinaryRealLiteral
	OctalRealLiteral
	WrongRealLiteralExponent
	DecimalEscapeSequence

	// Escapes
	HexadecimalEscapeMissingDigits
	HexadecimalEscapeNotValid
	UnknownEscapeSequence
	UnicodeEscapeMissingOpeningBrace
	UnicodeEscapeMissingClosingBrace
	UnicodeEscapeMissingBracedDigits
	UnicodeEscapeDigitsTooLarge
	UnicodeEscapeInvalidDigits
	UnicodeEscapeTooLarge
	UnicodeEscapeSurrogate

	// Strings
	MismatchedIndentInString
	InvalidHorizontalWhitespaceInString
	ContentBeforeStringTerminator
	UnterminatedString

	// Lexing
	UnrecognizedCharacter
	UnmatchedOpeningBracket
	UnmatchedClosingBracket

	kindCount
)

var kindNames = [kindCount]string{
	UnknownKind: "UnknownKind",

	ErrorOpeningFile:  "ErrorOpeningFile",
	ErrorStattingFile: "ErrorStattingFile",
	ErrorReadingFile:  "ErrorReadingFile",
	FileTooLarge:      "FileTooLarge",

	InvalidDigit:             "InvalidDigit",
	InvalidDigitSeparator:    "InvalidDigitSeparator",
	IrregularDigitSeparators: "IrregularDigitSeparators",
	EmptyDigitSequence:       "EmptyDigitSequence",
	UnknownBaseSpecifier:     "UnknownBaseSpecifier",

	BinaryRealLiteral:        "BinaryRealLiteral",
	OctalRealLiteral:         "OctalRealLiteral",
	WrongRealLiteralExponent: "WrongRealLiteralExponent",
	DecimalEscapeSequence:    "DecimalEscapeSequence",

	HexadecimalEscapeMissingDigits:   "HexadecimalEscapeMissingDigits",
	HexadecimalEscapeNotValid:        "HexadecimalEscapeNotValid",
	UnknownEscapeSequence:            "UnknownEscapeSequence",
	UnicodeEscapeMissingOpeningBrace: "UnicodeEscapeMissingOpeningBrace",
	UnicodeEscapeMissingClosingBrace: "UnicodeEscapeMissingClosingBrace",
	UnicodeEscapeMissingBracedDigits: "UnicodeEscapeMissingBracedDigits",
	UnicodeEscapeDigitsTooLarge:      "UnicodeEscapeDigitsTooLarge",
	UnicodeEscapeInvalidDigits:       "UnicodeEscapeInvalidDigits",
	UnicodeEscapeTooLarge:            "UnicodeEscapeTooLarge",
	UnicodeEscapeSurrogate:           "UnicodeEscapeSurrogate",

	MismatchedIndentInString:            "MismatchedIndentInString",
	InvalidHorizontalWhitespaceInString: "InvalidHorizontalWhitespaceInString",
	ContentBeforeStringTerminator:       "ContentBeforeStringTerminator",
	UnterminatedString:                  "UnterminatedString",

	UnrecognizedCharacter:   "UnrecognizedCharacter",
	UnmatchedOpeningBracket: "UnmatchedOpeningBracket",
	UnmatchedClosingBracket: "UnmatchedClosingBracket",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "UnknownKind"
}
