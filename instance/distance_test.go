package instance

import "testing"

func TestEuc2D(t *testing.T) {
	a := Coord2D{X: 0, Y: 0}
	b := Coord2D{X: 3, Y: 4}
	if got := euc2D(a, b); got != 5 {
		t.Fatalf("euc2D(0,0 -> 3,4) = %v, want 5", got)
	}
}

func TestCeil2D(t *testing.T) {
	a := Coord2D{X: 0, Y: 0}
	b := Coord2D{X: 1, Y: 1}
	if got := ceil2D(a, b); got != 2 {
		t.Fatalf("ceil2D(0,0 -> 1,1) = %v, want 2 (ceil of sqrt(2))", got)
	}
}

func TestAttRoundsUpWhenShort(t *testing.T) {
	// rij = sqrt(1/10) ~= 0.316, nint(rij) truncates to 0, which
	// undershoots rij, so att must round up to 1 rather than return 0.
	a := Coord2D{X: 0, Y: 0}
	b := Coord2D{X: 1, Y: 0}
	if got := att(a, b); got != 1 {
		t.Fatalf("att(0,0 -> 1,0) = %v, want 1", got)
	}
}

func TestDistanceDispatch(t *testing.T) {
	a := Coord2D{X: 0, Y: 0}
	b := Coord2D{X: 3, Y: 4}
	cases := []struct {
		name string
		typ  EdgeWeightType
		want float64
	}{
		{"EUC_2D", EucTwoD, 5},
		{"MAN_2D", ManTwoD, 7},
		{"CEIL_2D", CeilTwoD, 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Distance(c.typ, a, b); got != c.want {
				t.Errorf("Distance(%s) = %v, want %v", c.name, got, c.want)
			}
		})
	}
}

func TestParseEdgeWeightType(t *testing.T) {
	if _, ok := ParseEdgeWeightType("EUC_2D"); !ok {
		t.Fatal("expected EUC_2D to parse")
	}
	if _, ok := ParseEdgeWeightType("NOT_A_TYPE"); ok {
		t.Fatal("expected unknown edge weight type to fail")
	}
}
