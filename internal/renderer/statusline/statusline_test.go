package statusline

import (
	"strings"
	"testing"

	"github.com/dshills/inkwell/internal/renderer/backend"
)

func TestFormatPosition(t *testing.T) {
	tests := []struct {
		rows, first, height int
		want                string
	}{
		{3, 0, 10, "Ln 2, Col 5 | All"},
		{30, 0, 10, "Ln 2, Col 5 | Top"},
		{30, 20, 10, "Ln 2, Col 5 | Bot"},
		{30, 10, 10, "Ln 2, Col 5 | 50%"},
	}
	s := New()
	s.SetPosition(1, 4)
	for _, tt := range tests {
		s.SetScroll(tt.rows, tt.first, tt.height)
		if got := s.formatPosition(); got != tt.want {
			t.Errorf("rows=%d first=%d: %q, want %q", tt.rows, tt.first, got, tt.want)
		}
	}
}

func TestRenderStatus(t *testing.T) {
	b := backend.NewNull(40, 1)
	s := New()
	s.SetFilename("notes.html")
	s.SetModified(true)
	s.Render(b, 0, 40)

	line := b.Line(0)
	if !strings.HasPrefix(line, " notes.html [+]") {
		t.Errorf("status = %q", line)
	}
	if !strings.HasSuffix(line, "Ln 1, Col 1 | All") {
		t.Errorf("status = %q", line)
	}
	if _, attr := b.Cell(0, 0); !attr.Has(backend.AttrReverse) {
		t.Error("status bar should be reversed")
	}
}

func TestRenderPromptAndMessage(t *testing.T) {
	b := backend.NewNull(30, 1)
	s := New()

	s.SetPrompt("Link URL: ", "https://")
	s.Render(b, 0, 30)
	if got := b.Line(0); got != "Link URL: https://" {
		t.Errorf("prompt = %q", got)
	}
	if x, _, ok := b.Cursor(); !ok || x != 18 {
		t.Errorf("cursor at %d visible=%v", x, ok)
	}

	s.ClearPrompt()
	s.SetMessage("saved", MessageInfo)
	s.Render(b, 0, 30)
	if got := b.Line(0); got != "saved" {
		t.Errorf("message = %q", got)
	}
	if s.PromptActive() {
		t.Error("prompt should be cleared")
	}
}
