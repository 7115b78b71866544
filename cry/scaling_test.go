package cry

import (
	"math"
	"testing"
)

func TestStandardScalerCentersAndScales(t *testing.T) {
	t.Parallel()

	rows := [][]float64{
		{1, 10, 5},
		{2, 20, 5},
		{3, 30, 5},
		{4, 40, 5},
	}

	scaler, err := NewStandardScaler(rows)
	if err != nil {
		t.Fatalf("NewStandardScaler returned error: %v", err)
	}

	scaled := scaler.TransformAll(rows)
	for j := 0; j < 2; j++ {
		var mean float64
		for i := range scaled {
			mean += scaled[i][j]
		}
		mean /= float64(len(scaled))
		if math.Abs(mean) > 1e-12 {
			t.Fatalf("column %d mean after scaling: %v, want 0", j, mean)
		}

		var variance float64
		for i := range scaled {
			variance += scaled[i][j] * scaled[i][j]
		}
		variance /= float64(len(scaled))
		if math.Abs(variance-1) > 1e-9 {
			t.Fatalf("column %d variance after scaling: %v, want 1", j, variance)
		}
	}

	// The constant column passes through centred but unscaled.
	for i := range scaled {
		if scaled[i][2] != 0 {
			t.Fatalf("constant column should map to 0, got %v", scaled[i][2])
		}
	}

	// Input rows must stay untouched.
	if rows[0][0] != 1 || rows[3][1] != 40 {
		t.Fatal("Transform must not modify its input")
	}
}

func TestStandardScalerDimensionMismatchPassthrough(t *testing.T) {
	t.Parallel()

	scaler, err := NewStandardScaler([][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("NewStandardScaler returned error: %v", err)
	}

	in := []float64{1, 2, 3}
	out := scaler.Transform(in)
	if len(out) != 3 || out[0] != 1 || out[1] != 2 || out[2] != 3 {
		t.Fatalf("mismatched vector should pass through unchanged, got %v", out)
	}
}

func TestStandardScalerInputValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewStandardScaler(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := NewStandardScaler([][]float64{{1, 2}, {1}}); err == nil {
		t.Fatal("expected error for ragged rows")
	}
}
