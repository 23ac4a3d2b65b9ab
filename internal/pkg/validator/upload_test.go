package validator

import (
	"errors"
	"mime/multipart"
	"testing"

	"github.com/futig/bichat-backend/internal/config"
	"github.com/futig/bichat-backend/internal/entity"
)

func newTestValidator() *Validator {
	return NewFileValidator(config.FileUploadConfig{
		MaxFileSize:  1024,
		MaxTotalSize: 2048,
		MaxFileCount: 3,
	})
}

func header(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name    string
		files   []*multipart.FileHeader
		wantErr error
	}{
		{
			name:  "valid mixed batch",
			files: []*multipart.FileHeader{header("report.pdf", 500), header("data.csv", 300)},
		},
		{
			name:    "no files",
			files:   nil,
			wantErr: entity.ErrMissingField,
		},
		{
			name: "too many files",
			files: []*multipart.FileHeader{
				header("a.txt", 1), header("b.txt", 1), header("c.txt", 1), header("d.txt", 1),
			},
			wantErr: entity.ErrTooManyFiles,
		},
		{
			name:    "unsupported extension",
			files:   []*multipart.FileHeader{header("notes.docx", 100)},
			wantErr: entity.ErrInvalidExtension,
		},
		{
			name:    "file too large",
			files:   []*multipart.FileHeader{header("big.pdf", 2000)},
			wantErr: entity.ErrFileTooLarge,
		},
		{
			name:    "total too large",
			files:   []*multipart.FileHeader{header("a.pdf", 1000), header("b.pdf", 1000), header("c.pdf", 1000)},
			wantErr: entity.ErrTotalSizeTooLarge,
		},
		{
			name:  "uppercase extension accepted",
			files: []*multipart.FileHeader{header("REPORT.PDF", 100)},
		},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(tt.files)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"my report (final).pdf", "my_report_final.pdf"},
		{"../../etc/passwd", "passwd"},
		{"plain.txt", "plain.txt"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
