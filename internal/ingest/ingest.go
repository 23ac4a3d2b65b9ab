// Package ingest converts an uploaded document batch into the ordered,
// overlapping text chunks the knowledge index is built from.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/futig/bichat-backend/internal/config"
	"github.com/futig/bichat-backend/internal/entity"
	"go.uber.org/zap"
)

// Extractor runs the suffix-dispatched text extraction and chunking.
type Extractor struct {
	chunkSize    int
	chunkOverlap int
	logger       *zap.Logger
}

func NewExtractor(cfg config.IngestConfig, logger *zap.Logger) *Extractor {
	return &Extractor{
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
		logger:       logger,
	}
}

// Extract decodes every file in the batch and concatenates the decoded
// texts in batch order with no separator between files. Files with an
// unrecognized suffix are skipped silently. A file that fails to decode
// is skipped with a warning; the batch as a whole fails only when every
// decodable file failed. The returned count is the number of files that
// actually decoded.
func (e *Extractor) Extract(files []entity.UploadedFile) (string, int, []string, error) {
	var (
		sb       strings.Builder
		warnings []string
		decoded  int
		eligible int
	)

	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file.Name))
		decoder, ok := decoders[ext]
		if !ok {
			continue
		}
		eligible++

		text, err := decoder(file.Data)
		if err != nil {
			e.logger.Warn("skipping file: decode failed",
				zap.String("file", file.Name),
				zap.Error(err),
			)
			warnings = append(warnings, fmt.Sprintf("%s: %v", file.Name, err))
			continue
		}

		sb.WriteString(text)
		decoded++
	}

	if eligible > 0 && decoded == 0 {
		return "", 0, warnings, fmt.Errorf("%w: no file in the batch could be decoded", entity.ErrEmptyBatch)
	}

	return sb.String(), decoded, warnings, nil
}

// Chunk splits extracted text with the configured size and overlap.
func (e *Extractor) Chunk(text string) []string {
	return SplitText(text, e.chunkSize, e.chunkOverlap)
}
