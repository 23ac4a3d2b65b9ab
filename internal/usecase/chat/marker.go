package chat

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Canned texts surfaced to the user by the orchestrator.
const (
	chartFallbackText   = "Here is the chart you requested."
	artifactMissingNote = "\n\n(Could not find the generated chart file.)"
	producerErrorPrefix = "An error occurred while processing your request: "
	noDocumentsText     = "Please upload documents first."
)

// markerRe matches the chart handoff line the analysis agent appends
// to an answer. The captured path runs to the end of the line.
var markerRe = regexp.MustCompile(`PLOT_GENERATED:([^\n]*)`)

// resolveArtifact post-processes a raw producer answer: it extracts the
// chart marker, verifies the named file actually exists in the artifact
// directory, and rewrites the user-visible text accordingly.
//
// Returns the cleaned text and the verified artifact path, which is
// empty when no chart was produced or the file is missing.
func resolveArtifact(answer, artifactDir string) (string, string) {
	match := markerRe.FindStringSubmatch(answer)
	if match == nil {
		return answer, ""
	}

	// Strip the whole marker line from the visible text. Only the first
	// marker is honored; any later ones disappear with this replacement.
	text := strings.TrimSpace(markerRe.ReplaceAllString(answer, ""))

	// The model controls the marker payload, so only its base name is
	// trusted; the file must live in the artifact directory.
	name := filepath.Base(strings.TrimSpace(match[1]))
	if name == "." || name == string(filepath.Separator) {
		return text + artifactMissingNote, ""
	}

	path := filepath.Join(artifactDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return text + artifactMissingNote, ""
	}

	if text == "" {
		text = chartFallbackText
	}

	return text, path
}
