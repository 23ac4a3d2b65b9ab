package entity

import (
	"fmt"
	"time"
)

// Mode selects which answer producer serves a chat session.
type Mode string

const (
	// ModeDatabaseChart is the SQL analyst mode: the agent queries the
	// sales database and may render charts through the sandbox.
	ModeDatabaseChart Mode = "DATABASE_CHART"

	// ModeDocument is the document analysis mode: answers come from the
	// knowledge index built over the uploaded files.
	ModeDocument Mode = "DOCUMENT"
)

func (m Mode) Validate() error {
	switch m {
	case ModeDatabaseChart, ModeDocument:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidMode, m)
	}
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one message in a session. Turns are immutable
// after creation and appended to the history in chronological order.
// ArtifactPath is set only when the referenced chart file was verified
// to exist on disk at the time the turn was created.
type ConversationTurn struct {
	Role         Role      `json:"role"`
	Text         string    `json:"text"`
	ArtifactPath string    `json:"artifact_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// UploadedFile is one document from an upload batch, held in memory for
// the duration of the ingestion pass.
type UploadedFile struct {
	Name string
	Data []byte
}

// AnswerResult is the output of an answer producer. Text may still
// carry the chart marker; the orchestrator extracts it.
type AnswerResult struct {
	Text string
}

// IngestReport summarizes one document ingestion pass.
type IngestReport struct {
	FilesRead  int      `json:"files_read"`
	ChunkCount int      `json:"chunk_count"`
	Warnings   []string `json:"warnings,omitempty"`
}

// TranscriptFormat selects the export format for a session transcript.
type TranscriptFormat string

const (
	FormatMarkdown TranscriptFormat = "md"
	FormatPDF      TranscriptFormat = "pdf"
	FormatDOCX     TranscriptFormat = "docx"
)

func (f TranscriptFormat) Validate() error {
	switch f {
	case FormatMarkdown, FormatPDF, FormatDOCX:
		return nil
	default:
		return fmt.Errorf("%w: unknown transcript format %q", ErrInvalidParameter, f)
	}
}
