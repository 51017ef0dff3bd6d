package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderTable_AlignsMultibyteCells(t *testing.T) {
	out := RenderTable(Table{
		Headers:  []string{"Name", "Unit", "Price"},
		Rows:     [][]string{{"Cerámica", "m²", "$12.00"}, {"Cement bag", "unidad", "$1,000.00"}},
		LeftCols: []int{1},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), out)
	}
	want := lipgloss.Width(lines[0])
	for i, l := range lines {
		if w := lipgloss.Width(l); w != want {
			t.Errorf("line %d width = %d, want %d: %q", i, w, want, l)
		}
	}
	if !strings.Contains(out, "│ m²     │") {
		t.Errorf("unit column should be left-aligned:\n%s", out)
	}
	if !strings.Contains(out, "│    $12.00 │") {
		t.Errorf("price column should be right-aligned:\n%s", out)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("RenderTable(empty) = %q, want empty", got)
	}
}

func TestRenderKV(t *testing.T) {
	out := RenderKV("Business", [][2]string{{"Name", "Acme"}, {"Currency", "$"}})
	if !strings.Contains(out, "Name      Acme") {
		t.Errorf("labels should be padded to the widest:\n%s", out)
	}
}
