package ingest

import "strings"

// boundarySeparators are tried in order when a chunk window must be cut
// short of the size budget: paragraph break first, then line break, then
// word break. If none lands in the acceptable range the window is cut at
// the character budget.
var boundarySeparators = []string{"\n\n", "\n", " "}

// SplitText splits text into ordered, overlapping chunks. Each chunk is
// at most size characters; consecutive chunks share roughly overlap
// characters. The split greedily prefers natural boundaries over hard
// character cuts. Empty input yields no chunks.
//
// Sizes count characters, not bytes, so multibyte text never gets cut
// mid-rune.
//
// The function is pure: the same input always produces the same chunks.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = seekBoundary(runes, start, end)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end == len(runes) {
			break
		}

		next := end - overlap
		if next <= start {
			// Overlap would stall the scan; advance past the cut instead.
			next = end
		}
		start = next
	}

	return chunks
}

// seekBoundary finds the cut position for the window [start, limit).
// A boundary is accepted only in the second half of the window so that
// boundary seeking never produces degenerate short chunks; otherwise the
// hard limit is used.
func seekBoundary(runes []rune, start, limit int) int {
	half := (limit - start) / 2

	for _, sep := range boundarySeparators {
		if idx := lastSeparator(runes[start:limit], sep); idx > half {
			return start + idx
		}
	}

	return limit
}

// lastSeparator is strings.LastIndex over a rune window, returning a
// rune offset instead of a byte offset.
func lastSeparator(window []rune, sep string) int {
	sepRunes := []rune(sep)
	for i := len(window) - len(sepRunes); i >= 0; i-- {
		match := true
		for j, r := range sepRunes {
			if window[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
