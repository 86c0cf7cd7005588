package diag

import "fmt"

// Base describes one class of diagnostics: its stable kind, default
// level, and format string. Bases are declared as package-level vars
// next to the code that emits them.
type Base struct {
	Kind   Kind
	Level  Level
	Format string
}

// ContextFn lets a converter attach a context collection (e.g. an
// expansion site) to the diagnostic being built. The converter must
// not recurse into conversion of the same location.
type ContextFn func(loc Location, base Base)

// Converter resolves a phase-specific location type to a concrete
// source location.
type Converter[L any] interface {
	ConvertLoc(loc L, ctx ContextFn) Location
}

// Emitter composes diagnostics for one location type and ships them to
// a consumer.
type Emitter[L any] struct {
	converter Converter[L]
	consumer  Consumer
}

func NewEmitter[L any](converter Converter[L], consumer Consumer) *Emitter[L] {
	return &Emitter[L]{converter: converter, consumer: consumer}
}

// Emit builds and emits a single-collection diagnostic in one step.
func (e *Emitter[L]) Emit(loc L, base Base, args ...any) {
	e.Build(loc, base, args...).Emit()
}

// Build starts a diagnostic whose level is the base's level. Note
// bases cannot start a diagnostic; they attach to one via AddNote.
func (e *Emitter[L]) Build(loc L, base Base, args ...any) *Builder[L] {
	if base.Level == Note {
		panic("diag: note diagnostics must be attached with AddNote")
	}
	b := &Builder[L]{
		emitter: e,
		diag:    Diagnostic{Level: base.Level},
	}
	b.addMessage(loc, base, args...)
	return b
}

// Builder accumulates a diagnostic tree. It is single-shot: Emit
// consumes it; dropping a builder without Emit or Discard is a
// programming error.
type Builder[L any] struct {
	emitter *Emitter[L]
	done    bool
	diag    Diagnostic
}

// AddError appends an Error collection.
func (b *Builder[L]) AddError(loc L, base Base, args ...any) *Builder[L] {
	b.mustLevel(base, Error)
	b.addMessage(loc, base, args...)
	return b
}

// AddWarning appends a Warning collection.
func (b *Builder[L]) AddWarning(loc L, base Base, args ...any) *Builder[L] {
	b.mustLevel(base, Warning)
	b.addMessage(loc, base, args...)
	return b
}

// AddNote appends a Note collection.
func (b *Builder[L]) AddNote(loc L, base Base, args ...any) *Builder[L] {
	b.mustLevel(base, Note)
	b.addMessage(loc, base, args...)
	return b
}

// AddInfo appends an Info collection.
func (b *Builder[L]) AddInfo(loc L, base Base, args ...any) *Builder[L] {
	b.mustLevel(base, Info)
	b.addMessage(loc, base, args...)
	return b
}

func (b *Builder[L]) AddErrorSuggestion(message string, span ...Span) *Builder[L] {
	return b.addSuggestion(Error, message, span)
}

func (b *Builder[L]) AddWarningSuggestion(message string, span ...Span) *Builder[L] {
	return b.addSuggestion(Warning, message, span)
}

func (b *Builder[L]) AddNoteSuggestion(message string, span ...Span) *Builder[L] {
	return b.addSuggestion(Note, message, span)
}

func (b *Builder[L]) AddInfoSuggestion(message string, span ...Span) *Builder[L] {
	return b.addSuggestion(Info, message, span)
}

// AddPatchInsert proposes inserting text at pos. The span starts at pos
// and is as wide as the inserted text.
func (b *Builder[L]) AddPatchInsert(message, insertText string, pos int) *Builder[L] {
	span := SpanFromSize(pos, len(insertText))
	b.addPatch(Info, message, insertText, span, PatchInsert)
	return b
}

// AddPatchInsertHere proposes inserting text at the message's own
// column.
func (b *Builder[L]) AddPatchInsertHere(message, insertText string) *Builder[L] {
	span := SpanFromSize(0, len(insertText)).ToRelative()
	b.addPatch(Info, message, insertText, span, PatchInsert)
	return b
}

// PatchRemove proposes removing the spanned bytes.
func (b *Builder[L]) PatchRemove(message string, span Span) *Builder[L] {
	b.addPatch(Error, message, "", span, PatchRemove)
	return b
}

// NextChildSection starts a new sibling message under the current
// collection; subsequent suggestions attach to it.
func (b *Builder[L]) NextChildSection(loc L) *Builder[L] {
	coll := b.lastCollection()
	coll.Messages = append(coll.Messages, Message{
		Location: b.emitter.converter.ConvertLoc(loc, b.contextFn()),
	})
	return b
}

func (b *Builder[L]) AddChildErrorContext(message string) *Builder[L] {
	return b.addContext(Error, message)
}

func (b *Builder[L]) AddChildWarningContext(message string) *Builder[L] {
	return b.addContext(Warning, message)
}

func (b *Builder[L]) AddChildNoteContext(message string) *Builder[L] {
	return b.addContext(Note, message)
}

func (b *Builder[L]) AddChildInfoContext(message string) *Builder[L] {
	return b.addContext(Info, message)
}

// SetSpanLength overrides the length of the current message's
// location.
func (b *Builder[L]) SetSpanLength(length int) *Builder[L] {
	msgs := b.lastCollection().Messages
	msgs[len(msgs)-1].Location.Length = length
	return b
}

// Emit ships the diagnostic to the consumer and finishes the builder.
func (b *Builder[L]) Emit() {
	if b.done {
		panic("diag: builder emitted twice")
	}
	b.done = true
	d := b.diag
	b.diag = Diagnostic{}
	b.emitter.consumer.Consume(&d)
}

// Discard finishes the builder without emitting.
func (b *Builder[L]) Discard() {
	b.done = true
	b.diag = Diagnostic{}
}

func (b *Builder[L]) mustLevel(base Base, level Level) {
	if base.Level != level {
		panic(fmt.Sprintf("diag: base %s has level %s, not %s", base.Kind, base.Level, level))
	}
}

func (b *Builder[L]) lastCollection() *Collection {
	if len(b.diag.Collections) == 0 {
		panic("diag: builder has no collection")
	}
	return &b.diag.Collections[len(b.diag.Collections)-1]
}

func (b *Builder[L]) lastMessage() *Message {
	coll := b.lastCollection()
	return &coll.Messages[len(coll.Messages)-1]
}

func (b *Builder[L]) contextFn() ContextFn {
	return func(loc Location, base Base) {
		b.addMessageWithLoc(loc, base)
	}
}

func (b *Builder[L]) addMessage(loc L, base Base, args ...any) {
	b.addMessageWithLoc(b.emitter.converter.ConvertLoc(loc, b.contextFn()), base, args...)
}

func (b *Builder[L]) addMessageWithLoc(loc Location, base Base, args ...any) {
	b.diag.Collections = append(b.diag.Collections, Collection{
		Kind:     base.Kind,
		Level:    base.Level,
		Text:     fmt.Sprintf(base.Format, args...),
		Messages: []Message{{Location: loc}},
	})
}

func (b *Builder[L]) addContext(level Level, message string) *Builder[L] {
	coll := b.lastCollection()
	coll.Contexts = append(coll.Contexts, Context{Message: message, Level: level})
	return b
}

func (b *Builder[L]) addSuggestion(level Level, message string, span []Span) *Builder[L] {
	s := Suggestion{Message: message, Level: level}
	if len(span) > 0 {
		s.Span = span[0]
	}
	msg := b.lastMessage()
	msg.Suggestions = append(msg.Suggestions, s)
	return b
}

func (b *Builder[L]) addPatch(level Level, message, patchText string, span Span, kind PatchKind) {
	msg := b.lastMessage()
	msg.Suggestions = append(msg.Suggestions, Suggestion{
		Message:      message,
		Span:         span,
		Level:        level,
		PatchKind:    kind,
		PatchContent: patchText,
	})
}
