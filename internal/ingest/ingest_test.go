package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/futig/bichat-backend/internal/config"
	"github.com/futig/bichat-backend/internal/entity"
	"go.uber.org/zap"
)

func newTestExtractor() *Extractor {
	return NewExtractor(config.IngestConfig{ChunkSize: 1000, ChunkOverlap: 200}, zap.NewNop())
}

func TestExtractConcatenatesInBatchOrder(t *testing.T) {
	e := newTestExtractor()

	text, decoded, warnings, err := e.Extract([]entity.UploadedFile{
		{Name: "first.txt", Data: []byte("alpha ")},
		{Name: "second.md", Data: []byte("beta")},
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if text != "alpha beta" {
		t.Errorf("expected concatenation in batch order, got %q", text)
	}
	if decoded != 2 {
		t.Errorf("expected 2 decoded files, got %d", decoded)
	}
}

func TestExtractSkipsUnknownSuffixSilently(t *testing.T) {
	e := newTestExtractor()

	text, decoded, warnings, err := e.Extract([]entity.UploadedFile{
		{Name: "notes.txt", Data: []byte("kept")},
		{Name: "image.png", Data: []byte{0x89, 0x50}},
		{Name: "archive.zip", Data: []byte{0x50, 0x4b}},
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unknown suffixes must not produce warnings, got %v", warnings)
	}
	if text != "kept" {
		t.Errorf("expected only the text file's content, got %q", text)
	}
	if decoded != 1 {
		t.Errorf("skipped files must not count as decoded, got %d", decoded)
	}
}

func TestExtractWarnsAndContinuesOnDecodeFailure(t *testing.T) {
	e := newTestExtractor()

	// Invalid UTF-8 makes the text decoder fail for the first file.
	text, decoded, warnings, err := e.Extract([]entity.UploadedFile{
		{Name: "broken.txt", Data: []byte{0xff, 0xfe, 0xfd}},
		{Name: "good.txt", Data: []byte("survivor")},
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "broken.txt") {
		t.Errorf("expected one warning for broken.txt, got %v", warnings)
	}
	if text != "survivor" {
		t.Errorf("expected surviving file's content, got %q", text)
	}
	if decoded != 1 {
		t.Errorf("failed files must not count as decoded, got %d", decoded)
	}
}

func TestExtractFailsWhenEveryDecodableFileFails(t *testing.T) {
	e := newTestExtractor()

	_, _, warnings, err := e.Extract([]entity.UploadedFile{
		{Name: "broken.txt", Data: []byte{0xff}},
		{Name: "also_broken.csv", Data: []byte(`"unclosed`)},
	})
	if !errors.Is(err, entity.ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
	if len(warnings) != 2 {
		t.Errorf("expected warnings for both files, got %v", warnings)
	}
}

func TestExtractEmptyBatchOfUnknownSuffixes(t *testing.T) {
	e := newTestExtractor()

	text, decoded, warnings, err := e.Extract([]entity.UploadedFile{
		{Name: "image.png", Data: []byte{0x89}},
	})
	if err != nil {
		t.Fatalf("batch with only unknown suffixes must not fail, got %v", err)
	}
	if text != "" || decoded != 0 || len(warnings) != 0 {
		t.Errorf("expected empty result, got text=%q decoded=%d warnings=%v", text, decoded, warnings)
	}
}

func TestDecodeCSVRendersTabSeparatedLines(t *testing.T) {
	got, err := decodeCSV([]byte("name,price\nNotebook,5000\n"))
	if err != nil {
		t.Fatalf("decode csv: %v", err)
	}
	want := "name\tprice\nNotebook\t5000\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDecodeCSVRaggedRows(t *testing.T) {
	got, err := decodeCSV([]byte("a,b,c\nd,e\n"))
	if err != nil {
		t.Fatalf("ragged rows must be tolerated: %v", err)
	}
	if !strings.Contains(got, "d\te") {
		t.Errorf("missing ragged row in %q", got)
	}
}

func TestDecodeLegacySpreadsheetRejectsNonBIFFData(t *testing.T) {
	// Not an OLE2 container, so the reader must fail rather than return
	// garbage text.
	if _, err := decodeLegacySpreadsheet([]byte("plain text pretending to be a workbook")); err == nil {
		t.Error("expected error for non-BIFF data")
	}
}

func TestDecodeTextRejectsInvalidUTF8(t *testing.T) {
	if _, err := decodeText([]byte{0xff, 0xfe}); err == nil {
		t.Error("expected error for invalid UTF-8")
	}
}

func TestSupportedExtensionsCoversDispatchTable(t *testing.T) {
	exts := SupportedExtensions()
	if len(exts) != 6 {
		t.Fatalf("expected 6 supported extensions, got %d: %v", len(exts), exts)
	}

	seen := make(map[string]bool, len(exts))
	for _, ext := range exts {
		seen[ext] = true
	}
	for _, want := range []string{".pdf", ".xlsx", ".xls", ".csv", ".txt", ".md"} {
		if !seen[want] {
			t.Errorf("missing extension %s", want)
		}
	}
}
