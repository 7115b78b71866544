package cry

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Predictor classifies new recordings with a trained pipeline. The
// optional hooks let callers bolt on caregiver notes and spoken
// announcements without the classifier knowing about either.
type Predictor struct {
	pipeline  *Pipeline
	extractor *Extractor

	// ShowAdvice prints the care guidance under each console result.
	ShowAdvice bool
	// Notes, when set, generates an extra caregiver note per category.
	Notes func(category string) (string, error)
	// Announce, when set, speaks each result line.
	Announce func(line string) error
	// Observer, when set, is called once per classified recording after
	// its batch fully succeeds. Used to persist prediction history.
	Observer func(pred *Prediction)
}

// NewPredictor wires a trained pipeline to a feature extractor.
func NewPredictor(pipeline *Pipeline, extractor *Extractor) *Predictor {
	return &Predictor{pipeline: pipeline, extractor: extractor}
}

// PredictFile classifies a single recording.
func (p *Predictor) PredictFile(path string) (*Prediction, error) {
	features, err := p.extractor.ExtractFile(path)
	if err != nil {
		return nil, err
	}

	category, confidence, err := p.pipeline.PredictVector(features)
	if err != nil {
		return nil, err
	}

	return &Prediction{
		Path:       path,
		Category:   category,
		Confidence: confidence,
		Advice:     CareAdviceFor(category),
	}, nil
}

// PredictBatch classifies each path in order. The batch is atomic: any
// failing path aborts the whole call and nothing is returned.
func (p *Predictor) PredictBatch(paths []string) ([]Prediction, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths provided")
	}

	preds := make([]Prediction, 0, len(paths))
	for _, path := range paths {
		pred, err := p.PredictFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to classify %s: %w", path, err)
		}
		preds = append(preds, *pred)
	}

	return preds, nil
}

// PredictFiles classifies a batch of recordings into a path-to-category
// map, with the same all-or-nothing behavior as PredictBatch.
func (p *Predictor) PredictFiles(paths []string) (map[string]string, error) {
	preds, err := p.PredictBatch(paths)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(preds))
	for i := range preds {
		out[preds[i].Path] = preds[i].Category
	}

	return out, nil
}

// ParseInputPaths splits a console line on commas, trims whitespace and
// surrounding quotes, and drops empty pieces.
func ParseInputPaths(line string) []string {
	var paths []string
	for _, part := range strings.Split(line, ",") {
		path := strings.TrimSpace(part)
		path = strings.Trim(path, `"'`)
		path = strings.TrimSpace(path)
		if path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}

// RunConsole reads comma-separated recording paths from r until EOF, an
// empty line or an exit command. Each batch either classifies fully or
// prints the error and classifies nothing; the loop keeps going either
// way.
func (p *Predictor) RunConsole(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "\nEnter recording paths (comma separated), or 'exit' to quit: ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			return nil
		}

		paths := ParseInputPaths(line)
		if len(paths) == 0 {
			continue
		}

		preds, err := p.PredictBatch(paths)
		if err != nil {
			fmt.Fprintf(w, "ERROR: %v\n", err)
			continue
		}

		for i := range preds {
			pred := &preds[i]
			category := pred.Category
			resultLine := fmt.Sprintf("The reason behind the baby cry in %s is: %s", pred.Path, category)
			fmt.Fprintln(w, resultLine)

			if p.ShowAdvice {
				if advice := CareAdviceFor(category); advice != nil {
					fmt.Fprintf(w, "  %s\n", advice.Summary)
					for _, s := range advice.Suggestions {
						fmt.Fprintf(w, "  - %s\n", s)
					}
					if advice.SeekHelp != "" {
						fmt.Fprintf(w, "  ! %s\n", advice.SeekHelp)
					}
				}
			}

			if p.Notes != nil {
				note, err := p.Notes(category)
				if err != nil {
					fmt.Fprintf(w, "WARNING: caregiver note unavailable: %v\n", err)
				} else if note != "" {
					fmt.Fprintf(w, "  Note: %s\n", note)
				}
			}

			if p.Announce != nil {
				if err := p.Announce(resultLine); err != nil {
					fmt.Fprintf(w, "WARNING: announcement failed: %v\n", err)
				}
			}

			if p.Observer != nil {
				p.Observer(pred)
			}
		}
	}
}
