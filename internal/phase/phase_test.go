package phase

import "testing"

func TestOffsetsNonDecreasing(t *testing.T) {
	prev := -1
	for _, p := range All {
		if Offset(p) < prev {
			t.Errorf("Offset(%s) = %d, below previous %d", p, Offset(p), prev)
		}
		prev = Offset(p)
	}
	if Offset(Design) != 0 || Offset(Installing) != 75 {
		t.Errorf("Design/Installing offsets = %d/%d, want 0/75", Offset(Design), Offset(Installing))
	}
}

func TestStallThreshold(t *testing.T) {
	tests := []struct {
		p    Phase
		want int
	}{
		{Design, 14},
		{Estimating, 10},
		{Permitting, 21},
		{Surveying, 10},
		{Manufacturing, 20},
		{Installing, 7},
	}
	for _, tt := range tests {
		if got := StallThreshold(tt.p); got != tt.want {
			t.Errorf("StallThreshold(%s) = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestNext(t *testing.T) {
	if n, ok := Next(Design); !ok || n != Estimating {
		t.Errorf("Next(Design) = %q, %v", n, ok)
	}
	if n, ok := Next(Manufacturing); !ok || n != Installing {
		t.Errorf("Next(Manufacturing) = %q, %v", n, ok)
	}
	if _, ok := Next(Installing); ok {
		t.Error("Next(Installing) should have no successor")
	}
	if _, ok := Next("Bogus"); ok {
		t.Error("Next(Bogus) should fail")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Phase
		ok   bool
	}{
		{"design", Design, true},
		{" MANUFACTURING ", Manufacturing, true},
		{"Installing", Installing, true},
		{"install", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Parse(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIndex(t *testing.T) {
	for i, p := range All {
		if Index(p) != i {
			t.Errorf("Index(%s) = %d, want %d", p, Index(p), i)
		}
	}
	if Index("nope") != -1 {
		t.Error("Index(nope) should be -1")
	}
}
