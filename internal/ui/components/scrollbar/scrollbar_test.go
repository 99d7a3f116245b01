package scrollbar

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func blankStyles() Styles {
	return Styles{
		Track: lipgloss.NewStyle(),
		Thumb: lipgloss.NewStyle(),
	}
}

func TestScrollbar_NoScroll(t *testing.T) {
	bar := New(
		WithStyles(blankStyles()),
		WithSize(1, 3),
		WithRange(5, 5, 0),
	)

	got := bar.View()
	want := " \n \n "
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestScrollbar_ThumbAlwaysVisible(t *testing.T) {
	bar := New(
		WithStyles(blankStyles()),
		WithSize(1, 4),
		WithRange(100, 1, 50),
	)

	got := bar.View()
	if strings.Count(got, scrollbarThumb) == 0 {
		t.Fatalf("expected at least one thumb rune, got %q", got)
	}
}

func TestScrollbar_ThumbAtStart(t *testing.T) {
	bar := New(
		WithStyles(blankStyles()),
		WithSize(1, 5),
		WithRange(100, 10, 0),
	)

	got := bar.View()
	want := "█\n░\n░\n░\n░"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestScrollbar_ThumbInMiddle(t *testing.T) {
	bar := New(
		WithStyles(blankStyles()),
		WithSize(1, 6),
		WithRange(60, 10, 25),
	)

	got := bar.View()
	lines := strings.Split(got, "\n")
	if len(lines) != 6 {
		t.Fatalf("want 6 lines, got %d", len(lines))
	}
	if lines[0] != "░" || lines[5] != "░" {
		t.Fatalf("expected track at both ends, got %q", got)
	}
	if strings.Count(got, scrollbarThumb) != 1 {
		t.Fatalf("expected a single thumb rune, got %q", got)
	}
}

func TestScrollbar_ThumbAtEnd(t *testing.T) {
	bar := New(
		WithStyles(blankStyles()),
		WithSize(1, 5),
		WithRange(100, 10, 90),
	)

	got := bar.View()
	lines := strings.Split(got, "\n")
	if lines[len(lines)-1] != "█" {
		t.Fatalf("expected thumb at end, got %q", got)
	}
}
