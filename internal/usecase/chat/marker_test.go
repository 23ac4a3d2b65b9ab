package chat

import (
	"os"
	"path/filepath"
	"testing"
)

func writeArtifact(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveArtifact(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "chart.png")

	tests := []struct {
		name         string
		answer       string
		wantText     string
		wantArtifact bool
	}{
		{
			name:         "no marker passes through",
			answer:       "Revenue was 120000.",
			wantText:     "Revenue was 120000.",
			wantArtifact: false,
		},
		{
			name:         "marker with existing file",
			answer:       "Here is your chart.\nPLOT_GENERATED:chart.png",
			wantText:     "Here is your chart.",
			wantArtifact: true,
		},
		{
			name:         "marker only falls back to canned text",
			answer:       "PLOT_GENERATED:chart.png",
			wantText:     chartFallbackText,
			wantArtifact: true,
		},
		{
			name:         "marker with missing file appends note",
			answer:       "Done.\nPLOT_GENERATED:nope.png",
			wantText:     "Done." + artifactMissingNote,
			wantArtifact: false,
		},
		{
			name:         "marker path is stripped to its base name",
			answer:       "Saved.\nPLOT_GENERATED:../../etc/chart.png",
			wantText:     "Saved.",
			wantArtifact: true,
		},
		{
			name:         "marker payload with surrounding spaces",
			answer:       "Chart ready.\nPLOT_GENERATED:  chart.png  ",
			wantText:     "Chart ready.",
			wantArtifact: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, artifact := resolveArtifact(tt.answer, dir)
			if text != tt.wantText {
				t.Errorf("text: expected %q, got %q", tt.wantText, text)
			}
			if tt.wantArtifact && artifact == "" {
				t.Error("expected an artifact path, got none")
			}
			if !tt.wantArtifact && artifact != "" {
				t.Errorf("expected no artifact path, got %q", artifact)
			}
		})
	}
}

func TestResolveArtifactHonorsFirstMarkerOnly(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "first.png")

	text, artifact := resolveArtifact("PLOT_GENERATED:first.png\nPLOT_GENERATED:second.png", dir)

	if artifact != filepath.Join(dir, "first.png") {
		t.Errorf("expected first marker's file, got %q", artifact)
	}
	if text != chartFallbackText {
		t.Errorf("expected fallback text, got %q", text)
	}
}
