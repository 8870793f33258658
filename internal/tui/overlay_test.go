package tui

import (
	"strings"
	"testing"
)

func TestRenderPopupKeepsBaseRows(t *testing.T) {
	base := strings.Join([]string{
		"row-0................",
		"row-1................",
		"row-2................",
		"row-3................",
		"row-4................",
		"row-5................",
		"row-6................",
	}, "\n")
	out := renderPopup(base, "+-----+\n|Popup|\n+-----+", 21, 7)
	lines := strings.Split(out, "\n")
	if len(lines) != 7 {
		t.Fatalf("line count = %d, want 7", len(lines))
	}
	if !strings.Contains(lines[3], "|Popup|") {
		t.Fatalf("expected popup on the middle row, got %q", lines[3])
	}
	if !strings.HasPrefix(lines[3], "row-3") {
		t.Fatalf("expected base prefix kept left of the popup, got %q", lines[3])
	}
	if lines[0] != "row-0................" || lines[6] != "row-6................" {
		t.Fatalf("expected outer rows untouched, got %q / %q", lines[0], lines[6])
	}
}

func TestRenderPopupZeroCanvas(t *testing.T) {
	if out := renderPopup("base", "card", 0, 10); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
