package wide

import "testing"

func TestSplatSetsEveryLane(t *testing.T) {
	v := Splat(3.5)
	for i, l := range v {
		if l != 3.5 {
			t.Fatalf("lane %d = %v, want 3.5", i, l)
		}
	}
}

func TestAddSub(t *testing.T) {
	a := F32x8{1, 2, 3, 4, 5, 6, 7, 8}
	b := Splat(1)
	sum := a.Add(b)
	for i := range sum {
		if sum[i] != a[i]+1 {
			t.Fatalf("Add lane %d = %v, want %v", i, sum[i], a[i]+1)
		}
	}
	diff := sum.Sub(b)
	if diff != a {
		t.Fatalf("Sub did not undo Add: got %v, want %v", diff, a)
	}
}

func TestMul(t *testing.T) {
	a := F32x8{1, 2, 3, 4}
	got := a.Mul(Splat(2))
	want := F32x8{2, 4, 6, 8}
	if got != want {
		t.Fatalf("Mul = %v, want %v", got, want)
	}
}

func TestClamp(t *testing.T) {
	v := F32x8{-1, 0, 0.5, 1, 2}
	got := v.Clamp(0, 1)
	want := F32x8{0, 0, 0.5, 1, 1}
	if got != want {
		t.Fatalf("Clamp(0,1) = %v, want %v", got, want)
	}
}

func TestLerpEndpoints(t *testing.T) {
	a := Splat(0)
	b := Splat(10)
	if got := a.Lerp(b, Splat(0)); got != a {
		t.Fatalf("Lerp(t=0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, Splat(1)); got != b {
		t.Fatalf("Lerp(t=1) = %v, want %v", got, b)
	}
	mid := a.Lerp(b, Splat(0.5))
	for _, l := range mid {
		if l != 5 {
			t.Fatalf("Lerp(t=0.5) lane = %v, want 5", l)
		}
	}
}

func TestPow(t *testing.T) {
	v := F32x8{4, 9}
	got := v.Pow(0.5)
	if got[0] != 2 || got[1] != 3 {
		t.Fatalf("Pow(0.5) = %v, want sqrt", got)
	}
}
