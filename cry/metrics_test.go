package cry

import (
	"math"
	"strings"
	"testing"
)

func TestConfusionMatrixAndReport(t *testing.T) {
	t.Parallel()

	yTrue := []int{0, 0, 1, 1, 2, 2}
	yPred := []int{0, 1, 1, 1, 2, 0}

	matrix := NewConfusionMatrix(yTrue, yPred, 3)
	want := [][]int{
		{1, 1, 0},
		{0, 2, 0},
		{1, 0, 1},
	}
	for i := range want {
		for j := range want[i] {
			if matrix[i][j] != want[i][j] {
				t.Fatalf("matrix[%d][%d] = %d, want %d", i, j, matrix[i][j], want[i][j])
			}
		}
	}

	if acc := Accuracy(yTrue, yPred); math.Abs(acc-4.0/6.0) > 1e-12 {
		t.Fatalf("accuracy %v, want %v", acc, 4.0/6.0)
	}

	metrics := ClassificationReport(matrix, []string{"a", "b", "c"})
	checks := []struct {
		label     string
		precision float64
		recall    float64
		f1        float64
		support   int
	}{
		{"a", 0.5, 0.5, 0.5, 2},
		{"b", 2.0 / 3.0, 1.0, 0.8, 2},
		{"c", 1.0, 0.5, 2.0 / 3.0, 2},
	}
	for i, c := range checks {
		m := metrics[i]
		if m.Label != c.label || m.Support != c.support {
			t.Fatalf("class %d: got %s/%d, want %s/%d", i, m.Label, m.Support, c.label, c.support)
		}
		if math.Abs(m.Precision-c.precision) > 1e-12 {
			t.Fatalf("class %s precision %v, want %v", c.label, m.Precision, c.precision)
		}
		if math.Abs(m.Recall-c.recall) > 1e-12 {
			t.Fatalf("class %s recall %v, want %v", c.label, m.Recall, c.recall)
		}
		if math.Abs(m.F1-c.f1) > 1e-12 {
			t.Fatalf("class %s f1 %v, want %v", c.label, m.F1, c.f1)
		}
	}

	wantF1 := (0.5*2 + 0.8*2 + (2.0/3.0)*2) / 6
	if got := WeightedF1(metrics); math.Abs(got-wantF1) > 1e-12 {
		t.Fatalf("weighted F1 %v, want %v", got, wantF1)
	}
}

func TestMetricsDegenerateInput(t *testing.T) {
	t.Parallel()

	if Accuracy(nil, nil) != 0 {
		t.Fatal("accuracy of empty input should be 0")
	}
	if Accuracy([]int{1}, []int{1, 2}) != 0 {
		t.Fatal("accuracy of mismatched input should be 0")
	}

	empty := NewConfusionMatrix(nil, nil, 2)
	metrics := ClassificationReport(empty, []string{"a", "b"})
	for _, m := range metrics {
		if m.Precision != 0 || m.Recall != 0 || m.F1 != 0 || m.Support != 0 {
			t.Fatalf("empty matrix should score zero, got %+v", m)
		}
	}
	if WeightedF1(metrics) != 0 {
		t.Fatal("weighted F1 of empty matrix should be 0")
	}
}

func TestFormatConfusionMatrixMarksEmptyCells(t *testing.T) {
	t.Parallel()

	out := FormatConfusionMatrix([][]int{{0, 3}, {2, 0}}, []string{"belly_pain", "burping"})
	if !strings.Contains(out, "belly_p") {
		t.Fatalf("expected truncated label in header, got:\n%s", out)
	}
	if !strings.Contains(out, ".") {
		t.Fatalf("expected '.' for empty cells, got:\n%s", out)
	}
	if !strings.Contains(out, "3") || !strings.Contains(out, "2") {
		t.Fatalf("expected counts in output, got:\n%s", out)
	}
}

func TestFormatClassificationReportAlignsColumns(t *testing.T) {
	t.Parallel()

	metrics := []ClassMetrics{
		{Label: "hungry", Precision: 1, Recall: 0.5, F1: 2.0 / 3.0, Support: 4},
	}
	out := FormatClassificationReport(metrics)
	if !strings.Contains(out, "hungry") || !strings.Contains(out, "0.667") {
		t.Fatalf("unexpected report:\n%s", out)
	}
	if !strings.Contains(out, "Precision") || !strings.Contains(out, "Support") {
		t.Fatalf("missing header:\n%s", out)
	}
}
