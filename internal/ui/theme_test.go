package ui

import "testing"

func TestGetTheme_UnknownFallsBack(t *testing.T) {
	theme := GetTheme("NoSuchTheme")
	if theme.Name != "Dracula" {
		t.Fatalf("GetTheme fallback = %q, want Dracula", theme.Name)
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	start := themeOrder[0]
	current := start
	for range themeOrder {
		current = NextTheme(current)
	}
	if current != start {
		t.Fatalf("cycling all themes ended on %q, want %q", current, start)
	}
	if NextTheme("NoSuchTheme") != themeOrder[0] {
		t.Fatal("NextTheme of unknown theme should restart the cycle")
	}
}
