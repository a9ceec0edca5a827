package coords

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRotateThenTranslate(t *testing.T) {
	// A half-turn about the origin followed by a translation: the point
	// (10, 0) must land at (tx-10, ty).
	m := Rotate(math.Pi).Multiply(Translate(100, 50))
	p := m.Transform(Point{X: 10, Y: 0})
	if !almostEqual(p.X, 90) || !almostEqual(p.Y, 50) {
		t.Fatalf("got (%v, %v), want (90, 50)", p.X, p.Y)
	}
}

func TestScaleTranslateComposition(t *testing.T) {
	m := Scale(2, 3).Multiply(Translate(5, 7))
	p := m.Transform(Point{X: 1, Y: 1})
	if !almostEqual(p.X, 7) || !almostEqual(p.Y, 10) {
		t.Fatalf("got (%v, %v), want (7, 10)", p.X, p.Y)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := Rotate(math.Pi/3).Multiply(Scale(2, 2)).Multiply(Translate(-4, 9))
	inv, err := m.Inverse()
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}
	orig := Point{X: 3.5, Y: -1.25}
	back := inv.Transform(m.Transform(orig))
	if !almostEqual(back.X, orig.X) || !almostEqual(back.Y, orig.Y) {
		t.Fatalf("round trip got (%v, %v), want (%v, %v)", back.X, back.Y, orig.X, orig.Y)
	}
}

func TestInverseSingular(t *testing.T) {
	if _, err := Scale(0, 1).Inverse(); err == nil {
		t.Fatal("expected error for singular matrix")
	}
}

func TestIdentity(t *testing.T) {
	p := Point{X: 12, Y: -7}
	got := Identity().Transform(p)
	if got != p {
		t.Fatalf("identity moved point: %+v", got)
	}
}
