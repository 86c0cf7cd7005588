package lexer

import "dusk/internal/diag"

// SourceOffset is an absolute byte offset into the source buffer being
// lexed. It is the lexer's diagnostic location type: the token buffer's
// converter resolves it to file/line/column.
type SourceOffset int

// Emitter is the diagnostic emitter used during lexing, keyed by
// source offsets.
type Emitter = diag.Emitter[SourceOffset]

// Builder is the corresponding diagnostic builder.
type Builder = diag.Builder[SourceOffset]

// TokenEmitter is the post-lex emitter keyed by token indices.
type TokenEmitter = diag.Emitter[TokenIndex]
