package cache

import "testing"

func TestHashIP(t *testing.T) {
	a := hashIP("203.0.113.5")
	b := hashIP("203.0.113.5")
	c := hashIP("203.0.113.6")

	if a != b {
		t.Errorf("expected identical IPs to hash identically: %q vs %q", a, b)
	}
	if a == c {
		t.Error("expected distinct IPs to hash differently")
	}
	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(a))
	}
}
