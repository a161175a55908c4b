package input

import "testing"

func TestIsYes(t *testing.T) {
	tests := map[string]bool{
		"y":     true,
		"Y":     true,
		" yes ": true,
		"YES":   true,
		"":      false,
		"n":     false,
		"no":    false,
		"sure":  false,
	}
	for in, want := range tests {
		if got := IsYes(in); got != want {
			t.Errorf("IsYes(%q)=%v, want %v", in, got, want)
		}
	}
}
