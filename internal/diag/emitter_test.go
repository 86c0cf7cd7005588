package diag_test

import (
	"testing"

	"dusk/internal/diag"
)

// intConverter maps an integer "location" onto a fixed line, and can
// attach a context collection for negative locations.
type intConverter struct {
	contextBase *diag.Base
}

func (c intConverter) ConvertLoc(loc int, ctx diag.ContextFn) diag.Location {
	if loc < 0 && c.contextBase != nil && ctx != nil {
		ctx(diag.Location{Filename: "expansion.dk", LineNumber: 7, ColumnNumber: 1}, *c.contextBase)
		loc = -loc
	}
	return diag.Location{
		Filename:     "conv.dk",
		Line:         "source line",
		LineNumber:   1,
		ColumnNumber: loc + 1,
		Length:       1,
	}
}

var (
	testError = diag.Base{Kind: diag.InvalidDigit, Level: diag.Error, Format: "bad digit %q"}
	testNote  = diag.Base{Kind: diag.UnknownKind, Level: diag.Note, Format: "see here"}
)

func TestEmitterEmit(t *testing.T) {
	sink := &collectingConsumer{}
	em := diag.NewEmitter[int](intConverter{}, sink)

	em.Emit(3, testError, "x")

	if len(sink.diags) != 1 {
		t.Fatalf("consumed %d diagnostics", len(sink.diags))
	}
	d := sink.diags[0]
	if d.Level != diag.Error {
		t.Errorf("level = %v", d.Level)
	}
	coll := d.Collections[0]
	if coll.Kind != diag.InvalidDigit || coll.Text != `bad digit "x"` {
		t.Errorf("collection = %+v", coll)
	}
	loc := coll.Messages[0].Location
	if loc.ColumnNumber != 4 || loc.Filename != "conv.dk" {
		t.Errorf("location = %+v", loc)
	}
}

func TestBuilderAccumulates(t *testing.T) {
	sink := &collectingConsumer{}
	em := diag.NewEmitter[int](intConverter{}, sink)

	em.Build(0, testError, "y").
		AddErrorSuggestion("fix it", diag.NewSpan(1, 2)).
		AddInfoSuggestion("or this").
		NextChildSection(5).
		AddNoteSuggestion("child detail", diag.NewSpan(0, 1)).
		AddNote(2, testNote).
		AddChildInfoContext("footer").
		Emit()

	if len(sink.diags) != 1 {
		t.Fatalf("consumed %d diagnostics", len(sink.diags))
	}
	d := sink.diags[0]
	if len(d.Collections) != 2 {
		t.Fatalf("collections = %d, want 2", len(d.Collections))
	}

	first := d.Collections[0]
	if len(first.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(first.Messages))
	}
	if len(first.Messages[0].Suggestions) != 2 {
		t.Errorf("first message suggestions = %d", len(first.Messages[0].Suggestions))
	}
	if len(first.Messages[1].Suggestions) != 1 {
		t.Errorf("child section suggestions = %d", len(first.Messages[1].Suggestions))
	}

	note := d.Collections[1]
	if note.Level != diag.Note || note.Text != "see here" {
		t.Errorf("note collection = %+v", note)
	}
	if len(note.Contexts) != 1 || note.Contexts[0].Message != "footer" {
		t.Errorf("contexts = %+v", note.Contexts)
	}
}

func TestBuildPanicsOnNoteBase(t *testing.T) {
	em := diag.NewEmitter[int](intConverter{}, &collectingConsumer{})
	defer func() {
		if recover() == nil {
			t.Error("Build with a Note base did not panic")
		}
	}()
	em.Build(0, testNote)
}

func TestAddErrorPanicsOnLevelMismatch(t *testing.T) {
	em := diag.NewEmitter[int](intConverter{}, &collectingConsumer{})
	b := em.Build(0, testError, "z")
	defer func() {
		recover()
		b.Discard()
	}()
	b.AddError(1, testNote)
	t.Error("AddError with a Note base did not panic")
}

func TestEmitTwicePanics(t *testing.T) {
	em := diag.NewEmitter[int](intConverter{}, &collectingConsumer{})
	b := em.Build(0, testError, "w")
	b.Emit()
	defer func() {
		if recover() == nil {
			t.Error("second Emit did not panic")
		}
	}()
	b.Emit()
}

func TestConverterContextCallback(t *testing.T) {
	sink := &collectingConsumer{}
	ctxBase := diag.Base{Kind: diag.UnknownKind, Level: diag.Note, Format: "expanded from here"}
	em := diag.NewEmitter[int](intConverter{contextBase: &ctxBase}, sink)

	em.Emit(-4, testError, "ctx")

	d := sink.diags[0]
	if len(d.Collections) != 2 {
		t.Fatalf("collections = %d, want primary + context", len(d.Collections))
	}
	// The context collection was attached during conversion.
	var ctxColl *diag.Collection
	for i := range d.Collections {
		if d.Collections[i].Text == "expanded from here" {
			ctxColl = &d.Collections[i]
		}
	}
	if ctxColl == nil {
		t.Fatalf("context collection missing: %+v", d.Collections)
	}
	if ctxColl.Messages[0].Location.Filename != "expansion.dk" {
		t.Errorf("context location = %+v", ctxColl.Messages[0].Location)
	}
}

func TestPatchBuilders(t *testing.T) {
	sink := &collectingConsumer{}
	em := diag.NewEmitter[int](intConverter{}, sink)

	em.Build(0, testError, "p").
		AddPatchInsert("add semicolon", ";", 8).
		PatchRemove("drop this", diag.NewSpan(2, 5)).
		Emit()

	sugg := sink.diags[0].Collections[0].Messages[0].Suggestions
	if len(sugg) != 2 {
		t.Fatalf("suggestions = %+v", sugg)
	}
	insert := sugg[0]
	if insert.PatchKind != diag.PatchInsert || insert.PatchContent != ";" {
		t.Errorf("insert = %+v", insert)
	}
	if insert.Span.Size() != 1 || insert.Span.Start() != 8 {
		t.Errorf("insert span = %v", insert.Span)
	}
	remove := sugg[1]
	if remove.PatchKind != diag.PatchRemove || remove.Span.Size() != 3 {
		t.Errorf("remove = %+v", remove)
	}
}
