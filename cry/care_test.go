package cry

import "testing"

func TestCareAdviceCoversAllCategories(t *testing.T) {
	t.Parallel()

	for _, category := range Categories {
		advice := CareAdviceFor(category)
		if advice == nil {
			t.Fatalf("no care advice for %q", category)
		}
		if advice.Category != category {
			t.Fatalf("advice for %q reports category %q", category, advice.Category)
		}
		if advice.Summary == "" || len(advice.Suggestions) == 0 {
			t.Fatalf("advice for %q is incomplete: %+v", category, advice)
		}
	}
}

func TestCareAdviceUnknownCategory(t *testing.T) {
	t.Parallel()

	if advice := CareAdviceFor("colic"); advice != nil {
		t.Fatalf("expected nil for unknown category, got %+v", advice)
	}
}

func TestCareAdviceReturnsCopies(t *testing.T) {
	t.Parallel()

	first := CareAdviceFor("hungry")
	first.Summary = "overwritten"

	second := CareAdviceFor("hungry")
	if second.Summary == "overwritten" {
		t.Fatal("mutating a returned advice must not affect the table")
	}
}
