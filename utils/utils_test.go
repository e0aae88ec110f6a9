package utils

import (
	"strings"
	"testing"
)

func TestGenerateRandomDigitString(t *testing.T) {
	s := GenerateRandomDigitString(6)
	if len(s) != 6 {
		t.Fatalf("len = %d, want 6", len(s))
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit %q in %q", r, s)
		}
	}
}

func TestGenerateRandomStringLength(t *testing.T) {
	for _, n := range []int{0, 1, 16, 64} {
		if got := len(GenerateRandomString(n)); got != n {
			t.Errorf("len(GenerateRandomString(%d)) = %d", n, got)
		}
	}
}

func TestGetUUIDUnique(t *testing.T) {
	a, b := GetUUID(), GetUUID()
	if a == b {
		t.Fatal("expected distinct UUIDs")
	}
	if strings.Count(a, "-") != 4 {
		t.Fatalf("unexpected UUID shape %q", a)
	}
}

func TestTrimAll(t *testing.T) {
	got := TrimAll([]string{" ana ", "", "  ", "bruno", "\tcarla\n"})
	want := []string{"ana", "bruno", "carla"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTrimAllEmptyInput(t *testing.T) {
	if got := TrimAll(nil); got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty non-nil slice", got)
	}
}
