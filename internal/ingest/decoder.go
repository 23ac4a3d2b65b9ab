package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/ledongthuc/pdf"
	"github.com/unidoc/unioffice/spreadsheet"
)

// Decoder turns one uploaded file's raw bytes into plain text.
type Decoder func(data []byte) (string, error)

// decoders is the closed suffix dispatch table. Files whose suffix is
// not listed here contribute nothing to the extracted text.
var decoders = map[string]Decoder{
	".pdf":  decodePDF,
	".xlsx": decodeSpreadsheet,
	".xls":  decodeLegacySpreadsheet,
	".csv":  decodeCSV,
	".txt":  decodeText,
	".md":   decodeText,
}

// SupportedExtensions lists the suffixes the dispatch table handles.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(decoders))
	for ext := range decoders {
		exts = append(exts, ext)
	}
	return exts
}

// decodePDF extracts text per page and concatenates the pages in page
// order with no separator.
func decodePDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract pdf page %d: %w", i, err)
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}

// decodeSpreadsheet reads an OOXML workbook and renders every sheet as
// tab-separated rows.
func decodeSpreadsheet(data []byte) (string, error) {
	wb, err := spreadsheet.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	var sb strings.Builder
	for _, sheet := range wb.Sheets() {
		for _, row := range sheet.Rows() {
			cells := row.Cells()
			values := make([]string, len(cells))
			for i, cell := range cells {
				values[i] = cell.GetFormattedValue()
			}
			sb.WriteString(strings.Join(values, "\t"))
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}

// decodeLegacySpreadsheet reads a BIFF (.xls) workbook and renders it
// the same way as the OOXML decoder: every sheet as tab-separated rows.
func decodeLegacySpreadsheet(data []byte) (string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return "", fmt.Errorf("open legacy workbook: %w", err)
	}

	var sb strings.Builder
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				continue
			}
			var values []string
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				values = append(values, row.Col(c))
			}
			sb.WriteString(strings.Join(values, "\t"))
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}

// decodeCSV parses CSV rows and renders them as tab-separated lines.
func decodeCSV(data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}

	var sb strings.Builder
	for _, record := range records {
		sb.WriteString(strings.Join(record, "\t"))
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// decodeText passes UTF-8 bytes through verbatim.
func decodeText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid UTF-8")
	}
	return string(data), nil
}
