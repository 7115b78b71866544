package cry

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"cry-classification/utils"
)

// confusionGrid adapts a confusion matrix to the heat map grid
// interface. Rows are flipped so the first class renders at the top.
type confusionGrid struct {
	matrix [][]int
}

func (g confusionGrid) Dims() (int, int) { return len(g.matrix), len(g.matrix) }

func (g confusionGrid) Z(c, r int) float64 {
	return float64(g.matrix[len(g.matrix)-1-r][c])
}

func (g confusionGrid) X(c int) float64 { return float64(c) }

func (g confusionGrid) Y(r int) float64 { return float64(r) }

// SaveConfusionHeatmap renders the confusion matrix as a PNG heat map
// with category names on both axes.
func SaveConfusionHeatmap(matrix [][]int, labels []string, path string) error {
	if len(matrix) == 0 {
		return fmt.Errorf("empty confusion matrix")
	}

	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := utils.CreateFolder(dir); err != nil {
			return err
		}
	}

	p := plot.New()
	p.Title.Text = "Cry Reason Confusion Matrix"
	p.X.Label.Text = "Predicted"
	p.Y.Label.Text = "Actual"

	p.Add(plotter.NewHeatMap(confusionGrid{matrix: matrix}, palette.Heat(16, 1)))

	n := len(matrix)
	xTicks := make([]plot.Tick, n)
	yTicks := make([]plot.Tick, n)
	for i := 0; i < n; i++ {
		xTicks[i] = plot.Tick{Value: float64(i), Label: className(labels, i)}
		yTicks[i] = plot.Tick{Value: float64(i), Label: className(labels, n-1-i)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)

	if err := p.Save(6*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save heatmap: %w", err)
	}

	return nil
}

// className returns the label for a class code, falling back to the
// code itself.
func className(labels []string, i int) string {
	if i >= 0 && i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("c%d", i)
}
