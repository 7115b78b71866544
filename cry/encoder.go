package cry

import (
	"fmt"
	"sort"
)

// LabelEncoder maps category names to integer codes and back. Codes
// follow the sorted order of the labels seen at fit time, so the mapping
// is stable across runs over the same corpus.
type LabelEncoder struct {
	Classes []string
	codes   map[string]int
}

// NewLabelEncoder returns an unfitted encoder.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{}
}

// Fit learns the label set. Fitting twice is an error; the mapping must
// stay frozen for the lifetime of a trained model.
func (e *LabelEncoder) Fit(labels []string) error {
	if e.codes != nil {
		return fmt.Errorf("label encoder already fitted")
	}
	if len(labels) == 0 {
		return fmt.Errorf("no labels to fit")
	}

	seen := make(map[string]bool)
	for _, label := range labels {
		seen[label] = true
	}

	classes := make([]string, 0, len(seen))
	for label := range seen {
		classes = append(classes, label)
	}
	sort.Strings(classes)

	codes := make(map[string]int, len(classes))
	for i, label := range classes {
		codes[label] = i
	}

	e.Classes = classes
	e.codes = codes
	return nil
}

// NumClasses reports how many labels the encoder knows.
func (e *LabelEncoder) NumClasses() int {
	return len(e.Classes)
}

// Transform maps labels to their integer codes.
func (e *LabelEncoder) Transform(labels []string) ([]int, error) {
	if e.codes == nil {
		return nil, fmt.Errorf("label encoder not fitted")
	}

	out := make([]int, len(labels))
	for i, label := range labels {
		code, ok := e.codes[label]
		if !ok {
			return nil, fmt.Errorf("unknown label %q", label)
		}
		out[i] = code
	}
	return out, nil
}

// InverseTransform maps integer codes back to labels.
func (e *LabelEncoder) InverseTransform(codes []int) ([]string, error) {
	if e.codes == nil {
		return nil, fmt.Errorf("label encoder not fitted")
	}

	out := make([]string, len(codes))
	for i, code := range codes {
		if code < 0 || code >= len(e.Classes) {
			return nil, fmt.Errorf("unknown label code %d", code)
		}
		out[i] = e.Classes[code]
	}
	return out, nil
}

// Decode maps a single code back to its label.
func (e *LabelEncoder) Decode(code int) (string, error) {
	out, err := e.InverseTransform([]int{code})
	if err != nil {
		return "", err
	}
	return out[0], nil
}
