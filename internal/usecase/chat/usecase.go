// Package chat implements the conversation orchestrator: session
// lifecycle, mode switching, document ingestion, and the answer
// post-processing that turns raw producer output into user-visible
// turns with verified chart artifacts.
package chat

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/futig/bichat-backend/internal/config"
	"github.com/futig/bichat-backend/internal/entity"
	"github.com/futig/bichat-backend/internal/pkg/formatter"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ChatUsecase implements chat business logic
type ChatUsecase struct {
	store         *SessionStore
	chartProducer ChartProducer
	docAnswerer   DocAnswerer
	extractor     Extractor
	indexBuilder  IndexBuilder
	formatters    *formatter.Factory
	chartCfg      config.ChartConfig
	logger        *zap.Logger
}

// NewUsecase creates a new chat use case
func NewUsecase(
	store *SessionStore,
	chartProducer ChartProducer,
	docAnswerer DocAnswerer,
	extractor Extractor,
	indexBuilder IndexBuilder,
	formatters *formatter.Factory,
	chartCfg config.ChartConfig,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		store:         store,
		chartProducer: chartProducer,
		docAnswerer:   docAnswerer,
		extractor:     extractor,
		indexBuilder:  indexBuilder,
		formatters:    formatters,
		chartCfg:      chartCfg,
		logger:        logger,
	}
}

// CreateSession opens a new conversation in the given mode.
func (uc *ChatUsecase) CreateSession(ctx context.Context, mode entity.Mode) (*Session, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}

	session := uc.store.Create(mode)
	ctxzap.Info(ctx, "session created",
		zap.String("session_id", session.ID),
		zap.String("mode", string(mode)),
	)

	return session, nil
}

// GetSession returns a session by id.
func (uc *ChatUsecase) GetSession(ctx context.Context, id string) (*Session, error) {
	return uc.store.Get(id)
}

// SwitchMode changes the session mode. Switching to a different mode
// discards the turn log and the knowledge index; switching to the
// current mode changes nothing.
func (uc *ChatUsecase) SwitchMode(ctx context.Context, id string, mode entity.Mode) error {
	if err := mode.Validate(); err != nil {
		return err
	}

	session, err := uc.store.Get(id)
	if err != nil {
		return err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.Mode == mode {
		return nil
	}

	session.reset(mode)
	ctxzap.Info(ctx, "session mode switched, state cleared",
		zap.String("session_id", id),
		zap.String("mode", string(mode)),
	)

	return nil
}

// UploadDocuments ingests an upload batch and replaces the session's
// knowledge index with one built from it.
func (uc *ChatUsecase) UploadDocuments(ctx context.Context, id string, files []entity.UploadedFile) (*entity.IngestReport, error) {
	session, err := uc.store.Get(id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.Mode != entity.ModeDocument {
		return nil, fmt.Errorf("%w: document upload requires %s mode", entity.ErrWrongMode, entity.ModeDocument)
	}

	text, decoded, warnings, err := uc.extractor.Extract(files)
	if err != nil {
		return nil, err
	}

	chunks := uc.extractor.Chunk(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: extracted text is empty", entity.ErrEmptyBatch)
	}

	idx, err := uc.indexBuilder.Build(ctx, chunks)
	if err != nil {
		// The previous index, if any, stays in place on failure.
		return nil, fmt.Errorf("%w: %v", entity.ErrIndexBuild, err)
	}

	session.Index = idx

	ctxzap.Info(ctx, "documents ingested",
		zap.String("session_id", id),
		zap.Int("files", len(files)),
		zap.Int("chunks", len(chunks)),
		zap.Int("warnings", len(warnings)),
	)

	return &entity.IngestReport{
		FilesRead:  decoded,
		ChunkCount: len(chunks),
		Warnings:   warnings,
	}, nil
}

// SendMessage appends the user turn, produces an answer in the
// session's mode, and appends the resulting assistant turn.
//
// Producer failures never propagate as errors: the failure is logged
// and surfaced to the user as the assistant turn's text, keeping the
// conversation alive.
func (uc *ChatUsecase) SendMessage(ctx context.Context, id string, text string) (entity.ConversationTurn, error) {
	if text == "" {
		return entity.ConversationTurn{}, fmt.Errorf("%w: text", entity.ErrMissingField)
	}

	session, err := uc.store.Get(id)
	if err != nil {
		return entity.ConversationTurn{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	history := session.snapshotTurns()
	session.Turns = append(session.Turns, entity.ConversationTurn{
		Role:      entity.RoleUser,
		Text:      text,
		CreatedAt: time.Now(),
	})

	answerText, artifactPath := uc.produceAnswer(ctx, session, text, history)

	assistant := entity.ConversationTurn{
		Role:         entity.RoleAssistant,
		Text:         answerText,
		ArtifactPath: artifactPath,
		CreatedAt:    time.Now(),
	}
	session.Turns = append(session.Turns, assistant)

	return assistant, nil
}

func (uc *ChatUsecase) produceAnswer(
	ctx context.Context,
	session *Session,
	question string,
	history []entity.ConversationTurn,
) (string, string) {
	switch session.Mode {
	case entity.ModeDatabaseChart:
		result, err := uc.chartProducer.Answer(ctx, question, history)
		if err != nil {
			ctxzap.Error(ctx, "chart producer failed",
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
			return producerErrorPrefix + err.Error(), ""
		}
		return resolveArtifact(result.Text, uc.chartCfg.ArtifactDir)

	case entity.ModeDocument:
		if session.Index == nil {
			return noDocumentsText, ""
		}

		result, err := uc.docAnswerer.Answer(ctx, session.Index, question, history)
		if err != nil {
			ctxzap.Error(ctx, "document answerer failed",
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
			return producerErrorPrefix + err.Error(), ""
		}
		return result.Text, ""

	default:
		return producerErrorPrefix + "unknown session mode", ""
	}
}

// History returns a copy of the session's turn log.
func (uc *ChatUsecase) History(ctx context.Context, id string) ([]entity.ConversationTurn, error) {
	session, err := uc.store.Get(id)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	return session.snapshotTurns(), nil
}

// ChartPath returns the artifact path of the most recent turn that
// produced a chart, verifying the file still exists.
func (uc *ChatUsecase) ChartPath(ctx context.Context, id string) (string, error) {
	session, err := uc.store.Get(id)
	if err != nil {
		return "", err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	for i := len(session.Turns) - 1; i >= 0; i-- {
		path := session.Turns[i].ArtifactPath
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return "", entity.ErrArtifactMissing
		}
		return path, nil
	}

	return "", entity.ErrArtifactMissing
}

// Transcript exports the session's turn log in the requested format.
func (uc *ChatUsecase) Transcript(ctx context.Context, id string, format entity.TranscriptFormat) ([]byte, string, string, error) {
	if err := format.Validate(); err != nil {
		return nil, "", "", err
	}

	turns, err := uc.History(ctx, id)
	if err != nil {
		return nil, "", "", err
	}

	f, err := uc.formatters.Create(format)
	if err != nil {
		return nil, "", "", err
	}

	data, err := f.Format(renderTranscript(turns))
	if err != nil {
		return nil, "", "", fmt.Errorf("format transcript: %w", err)
	}

	return data, f.ContentType(), f.FileExtension(), nil
}
