package docqa

import (
	"strings"
	"testing"
)

func TestRenderQuestionNumbersExcerpts(t *testing.T) {
	got := renderQuestion("what is the total?", []string{"first excerpt", "second excerpt"})

	for _, want := range []string{
		"[1] first excerpt",
		"[2] second excerpt",
		"Question: what is the total?",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered question is missing %q:\n%s", want, got)
		}
	}
}

func TestRenderQuestionWithNoContext(t *testing.T) {
	got := renderQuestion("anything?", nil)

	if !strings.Contains(got, "Question: anything?") {
		t.Errorf("rendered question is missing the question itself:\n%s", got)
	}
}
