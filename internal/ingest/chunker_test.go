package ingest

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitTextEmptyInput(t *testing.T) {
	if got := SplitText("", 1000, 200); got != nil {
		t.Errorf("expected no chunks for empty input, got %d", len(got))
	}
}

func TestSplitTextShortInputIsOneChunk(t *testing.T) {
	got := SplitText("short document", 1000, 200)
	if len(got) != 1 || got[0] != "short document" {
		t.Errorf("expected the input back as one chunk, got %#v", got)
	}
}

func TestSplitTextRespectsSizeBudget(t *testing.T) {
	text := strings.Repeat("word ", 1000)

	chunks := SplitText(text, 100, 20)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 100 {
			t.Errorf("chunk %d exceeds size budget: %d chars", i, len(chunk))
		}
	}
}

func TestSplitTextPrefersParagraphBoundaries(t *testing.T) {
	first := strings.Repeat("a", 70)
	second := strings.Repeat("b", 70)
	text := first + "\n\n" + second

	chunks := SplitText(text, 100, 10)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if strings.Contains(chunks[0], "b") {
		t.Errorf("first chunk crossed the paragraph boundary: %q", chunks[0])
	}
}

func TestSplitTextOverlap(t *testing.T) {
	// Continuous text with no natural boundaries forces hard cuts, so
	// overlap regions are exact.
	text := strings.Repeat("x", 250)

	chunks := SplitText(text, 100, 20)
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}

	// Consecutive hard-cut chunks share their boundary region.
	tail := chunks[0][len(chunks[0])-20:]
	head := chunks[1][:20]
	if tail != head {
		t.Errorf("expected 20-char overlap, tail %q vs head %q", tail, head)
	}
}

func TestSplitTextDeterministic(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet. ", 200)

	first := SplitText(text, 300, 60)
	second := SplitText(text, 300, 60)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitTextCountsRunesNotBytes(t *testing.T) {
	// 1200 runes of a 3-byte character with no whitespace boundaries
	// forces hard cuts; every cut must land on a rune boundary.
	text := strings.Repeat("世", 1200)

	chunks := SplitText(text, 1000, 200)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
	}
	if n := utf8.RuneCountInString(chunks[0]); n != 1000 {
		t.Errorf("expected 1000-rune first chunk, got %d", n)
	}
	if n := utf8.RuneCountInString(chunks[1]); n != 400 {
		t.Errorf("expected 400-rune second chunk, got %d", n)
	}
}

func TestSplitTextMixedWidthBoundarySeek(t *testing.T) {
	first := strings.Repeat("й", 70)
	second := strings.Repeat("ж", 70)

	chunks := SplitText(first+"\n\n"+second, 100, 10)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
	}
	if strings.Contains(chunks[0], "ж") {
		t.Errorf("first chunk crossed the paragraph boundary: %q", chunks[0])
	}
}

func TestSplitTextDegenerateOverlap(t *testing.T) {
	// overlap >= size would stall the scan; it is ignored instead.
	chunks := SplitText(strings.Repeat("y", 50), 10, 10)
	if len(chunks) != 5 {
		t.Fatalf("expected 5 chunks, got %d", len(chunks))
	}
}
