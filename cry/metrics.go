package cry

import (
	"fmt"
	"strings"
)

// Accuracy returns the fraction of matching predictions.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return 0
	}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// NewConfusionMatrix counts true-label rows against predicted-label
// columns.
func NewConfusionMatrix(yTrue, yPred []int, numClasses int) [][]int {
	matrix := make([][]int, numClasses)
	for i := range matrix {
		matrix[i] = make([]int, numClasses)
	}
	for i := range yTrue {
		if yTrue[i] < 0 || yTrue[i] >= numClasses || yPred[i] < 0 || yPred[i] >= numClasses {
			continue
		}
		matrix[yTrue[i]][yPred[i]]++
	}
	return matrix
}

// ClassificationReport derives per-class precision, recall, F1 and
// support from a confusion matrix. Classes with no predictions or no
// samples score zero rather than dividing by zero.
func ClassificationReport(matrix [][]int, labels []string) []ClassMetrics {
	metrics := make([]ClassMetrics, len(matrix))
	for c := range matrix {
		truePos := matrix[c][c]
		rowSum := 0
		colSum := 0
		for k := range matrix {
			rowSum += matrix[c][k]
			colSum += matrix[k][c]
		}

		var precision, recall, f1 float64
		if colSum > 0 {
			precision = float64(truePos) / float64(colSum)
		}
		if rowSum > 0 {
			recall = float64(truePos) / float64(rowSum)
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		metrics[c] = ClassMetrics{
			Label:     className(labels, c),
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   rowSum,
		}
	}
	return metrics
}

// WeightedF1 averages per-class F1 scores weighted by support.
func WeightedF1(metrics []ClassMetrics) float64 {
	var weighted float64
	total := 0
	for _, m := range metrics {
		weighted += m.F1 * float64(m.Support)
		total += m.Support
	}
	if total == 0 {
		return 0
	}
	return weighted / float64(total)
}

// FormatClassificationReport renders the per-class metric table.
func FormatClassificationReport(metrics []ClassMetrics) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-20s %10s %10s %10s %10s\n", "Class", "Precision", "Recall", "F1", "Support"))
	b.WriteString(strings.Repeat("-", 64) + "\n")
	for _, m := range metrics {
		b.WriteString(fmt.Sprintf("%-20s %10.3f %10.3f %10.3f %10d\n",
			m.Label, m.Precision, m.Recall, m.F1, m.Support))
	}
	return b.String()
}

// FormatConfusionMatrix renders the matrix with truncated labels and "."
// for empty cells.
func FormatConfusionMatrix(matrix [][]int, labels []string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-12s", "Actual\\Pred"))
	for i := range matrix {
		b.WriteString(fmt.Sprintf("%8s", truncateLabel(className(labels, i), 7)))
	}
	b.WriteString("\n")

	for i, row := range matrix {
		b.WriteString(fmt.Sprintf("%-12s", truncateLabel(className(labels, i), 11)))
		for _, count := range row {
			if count == 0 {
				b.WriteString(fmt.Sprintf("%8s", "."))
			} else {
				b.WriteString(fmt.Sprintf("%8d", count))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// truncateLabel shortens a label to fit a table column.
func truncateLabel(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
