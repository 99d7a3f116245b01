package frame

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

func TestFrameLineCountAndWidth(t *testing.T) {
	box := New(
		WithSize(10, 4),
		WithTitle("T"),
		WithTitlePadding(1),
		WithContent("hi"),
	)

	view := box.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 4 {
		t.Fatalf("want 4 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if lipgloss.Width(line) != 10 {
			t.Fatalf("line %d: want width 10, got %d", i, lipgloss.Width(line))
		}
	}
}

func TestFrameMinHeight(t *testing.T) {
	box := New(
		WithSize(10, 2),
		WithMinHeight(5),
		WithTitle("T"),
		WithTitlePadding(1),
		WithContent("hi"),
	)

	view := box.View()
	lines := strings.Split(view, "\n")
	if len(lines) != 5 {
		t.Fatalf("want 5 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if lipgloss.Width(line) != 10 {
			t.Fatalf("line %d: want width 10, got %d", i, lipgloss.Width(line))
		}
	}
}

func TestFrameFocusStyles(t *testing.T) {
	focusedBorder := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styles := Styles{
		Focused: StyleState{
			Title:  lipgloss.NewStyle(),
			Border: focusedBorder,
		},
		Blurred: StyleState{
			Title:  lipgloss.NewStyle(),
			Border: lipgloss.NewStyle(),
		},
	}

	focused := New(
		WithStyles(styles),
		WithFocused(true),
		WithTitle("T"),
		WithSize(8, 3),
	)
	unfocused := New(
		WithStyles(styles),
		WithFocused(false),
		WithTitle("T"),
		WithSize(8, 3),
	)

	if !strings.Contains(focused.View(), "\x1b[") {
		t.Fatalf("expected focused view to contain ANSI sequences")
	}
	if strings.Contains(unfocused.View(), "\x1b[") {
		t.Fatalf("expected unfocused view to avoid ANSI sequences")
	}
}

func TestFrameBasic(t *testing.T) {
	box := New(
		WithSize(20, 5),
		WithTitle("Title"),
		WithTitlePadding(1),
		WithContent("hello"),
	)

	lines := strings.Split(ansi.Strip(box.View()), "\n")
	if len(lines) != 5 {
		t.Fatalf("want 5 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], " Title ") {
		t.Fatalf("top border missing title: %q", lines[0])
	}
	if !strings.HasPrefix(lines[0], "╭") || !strings.HasSuffix(lines[0], "╮") {
		t.Fatalf("unexpected top border corners: %q", lines[0])
	}
	if !strings.Contains(lines[1], "hello") {
		t.Fatalf("body missing content: %q", lines[1])
	}
	if !strings.HasPrefix(lines[4], "╰") || !strings.HasSuffix(lines[4], "╯") {
		t.Fatalf("unexpected bottom border corners: %q", lines[4])
	}
}

func TestFrameWithMeta(t *testing.T) {
	box := New(
		WithSize(30, 6),
		WithTitle("History"),
		WithTitlePadding(1),
		WithMeta("3 pages"),
		WithMetaPadding(1),
		WithContent("row 1\nrow 2"),
	)

	lines := strings.Split(ansi.Strip(box.View()), "\n")
	if len(lines) != 6 {
		t.Fatalf("want 6 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "╖ 3 pages ╓") {
		t.Fatalf("top border missing meta: %q", lines[0])
	}
	if !strings.Contains(lines[1], "row 1") || !strings.Contains(lines[2], "row 2") {
		t.Fatalf("body rows missing: %q / %q", lines[1], lines[2])
	}
}

func TestFrameWithFilter(t *testing.T) {
	box := New(
		WithSize(26, 4),
		WithTitle("Watchlist"),
		WithFilter("usd"),
		WithTitlePadding(1),
		WithContent("row"),
	)

	lines := strings.Split(ansi.Strip(box.View()), "\n")
	if !strings.Contains(lines[0], "Watchlist[usd]") {
		t.Fatalf("top border missing filter: %q", lines[0])
	}
	for i, line := range lines {
		if lipgloss.Width(line) != 26 {
			t.Fatalf("line %d: want width 26, got %d", i, lipgloss.Width(line))
		}
	}
}

func TestFrameFilterDroppedWhenNarrow(t *testing.T) {
	box := New(
		WithSize(12, 3),
		WithTitle("Watchlist"),
		WithFilter("very long filter text"),
		WithTitlePadding(1),
		WithContent("x"),
	)

	lines := strings.Split(ansi.Strip(box.View()), "\n")
	for i, line := range lines {
		if lipgloss.Width(line) != 12 {
			t.Fatalf("line %d: want width 12, got %d", i, lipgloss.Width(line))
		}
	}
}
