package undo_test

import (
	"testing"

	"github.com/dshills/inkwell/internal/dispatcher/action"
	"github.com/dshills/inkwell/internal/dispatcher/execctx"
	"github.com/dshills/inkwell/internal/dispatcher/handler"
	"github.com/dshills/inkwell/internal/dispatcher/handlers/undo"
	"github.com/dshills/inkwell/internal/engine/cursor"
	"github.com/dshills/inkwell/internal/engine/policy"
	"github.com/dshills/inkwell/internal/engine/tree"
)

type historyEditor struct {
	undos, redos int
	saved        cursor.Offsets
	current      cursor.Offsets
}

func (e *historyEditor) Tree() *tree.Node             { return tree.NewDocument() }
func (e *historyEditor) Policy() *policy.Policy       { return policy.Default() }
func (e *historyEditor) Commit(execctx.Change) string { return "" }

func (e *historyEditor) Undo(cur cursor.Offsets) (cursor.Offsets, bool) {
	if e.undos == 0 {
		return cursor.Offsets{}, false
	}
	e.undos--
	e.current = cur
	return e.saved, true
}

func (e *historyEditor) Redo(cur cursor.Offsets) (cursor.Offsets, bool) {
	if e.redos == 0 {
		return cursor.Offsets{}, false
	}
	e.redos--
	e.current = cur
	return e.saved, true
}

func TestUndoHandler(t *testing.T) {
	ed := &historyEditor{undos: 1, redos: 1, saved: cursor.Caret(4)}
	ctx := execctx.New().WithEditor(ed)
	ctx.Captured = cursor.Caret(9)
	h := undo.NewUndoHandler()

	for _, a := range []action.Action{action.Undo, action.Redo} {
		if !h.CanHandle(a) {
			t.Fatalf("CanHandle(%s) = false", a)
		}
		result := h.Handle(action.New(a), ctx)
		if !result.IsOK() || !result.Committed {
			t.Fatalf("%s: %+v", a, result)
		}
		if !result.CaretMoved || result.Caret != ed.saved {
			t.Errorf("%s: caret %+v", a, result.Caret)
		}
		if ed.current != ctx.Captured {
			t.Errorf("%s: editor got %+v as the current selection", a, ed.current)
		}

		if again := h.Handle(action.New(a), ctx); again.Status != handler.StatusNoOp {
			t.Errorf("%s with empty history: %v", a, again.Status)
		}
	}
}
