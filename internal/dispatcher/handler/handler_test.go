package handler_test

import (
	"testing"

	"github.com/dshills/inkwell/internal/dispatcher/action"
	"github.com/dshills/inkwell/internal/dispatcher/execctx"
	"github.com/dshills/inkwell/internal/dispatcher/handler"
)

func TestHandlerFunc(t *testing.T) {
	var got action.Command
	h := handler.NewHandlerFunc(func(cmd action.Command, ctx *execctx.ExecutionContext) handler.Result {
		got = cmd
		return handler.Success()
	})

	result := h.Handle(action.New(action.Bold), execctx.New())

	if result.Status != handler.StatusOK {
		t.Errorf("expected StatusOK, got %v", result.Status)
	}
	if got.Action != action.Bold {
		t.Errorf("expected bold, got %v", got.Action)
	}
	if !h.CanHandle(action.Enter) {
		t.Error("HandlerFunc should accept any action")
	}
	if h.Priority() != 0 {
		t.Errorf("expected priority 0, got %d", h.Priority())
	}
}

func TestHandlerFuncWithPriority(t *testing.T) {
	h := handler.NewHandlerFuncWithPriority(func(action.Command, *execctx.ExecutionContext) handler.Result {
		return handler.NoOp()
	}, 50)

	if h.Priority() != 50 {
		t.Errorf("expected priority 50, got %d", h.Priority())
	}
}

func TestNilHandlerFunc(t *testing.T) {
	h := handler.NewHandlerFunc(nil)

	if result := h.Handle(action.New(action.Bold), execctx.New()); !result.IsError() {
		t.Errorf("expected error for nil function, got %v", result.Status)
	}
}

func TestSimpleHandler(t *testing.T) {
	h := &handler.SimpleHandler{
		Action: action.Link,
		Fn: func(cmd action.Command, ctx *execctx.ExecutionContext) handler.Result {
			return handler.Success().WithData("url", cmd.Text)
		},
		Prio: 10,
	}

	if !h.CanHandle(action.Link) || h.CanHandle(action.Image) {
		t.Error("SimpleHandler should only accept its action")
	}
	if h.Priority() != 10 {
		t.Errorf("expected priority 10, got %d", h.Priority())
	}
	result := h.Handle(action.New(action.Link).WithText("https://x.io"), execctx.New())
	if result.GetDataString("url") != "https://x.io" {
		t.Errorf("unexpected data %v", result.Data)
	}

	empty := &handler.SimpleHandler{Action: action.Link}
	if !empty.Handle(action.New(action.Link), execctx.New()).IsError() {
		t.Error("expected error for nil function")
	}
}
