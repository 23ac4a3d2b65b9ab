package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/futig/bichat-backend/internal/entity"
	"github.com/futig/bichat-backend/internal/pkg/logger"
	"github.com/futig/bichat-backend/internal/pkg/response"
	"github.com/futig/bichat-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// maxUploadMemory caps how much of a multipart upload is buffered in
// memory before spilling to temp files.
const maxUploadMemory = 32 << 20

type Handler struct {
	usecase   ChatUsecase
	validator *validator.Validator
}

func NewHandler(usecase ChatUsecase, validator *validator.Validator) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
	}
}

// CreateSession handles POST /chat-session - Open a new chat session
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateSession")

	var req entity.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.Mode == "" {
		req.Mode = entity.ModeDatabaseChart
	}

	session, err := h.usecase.CreateSession(ctx, req.Mode)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, session.DTO())
}

// GetSession handles GET /chat-session/{id} - Get session state
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action", "GetSession"),
	)

	session, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, session.DTO())
}

// SwitchMode handles POST /chat-session/{id}/mode - Switch session mode
func (h *Handler) SwitchMode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action", "SwitchMode"),
	)

	var req entity.SwitchModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.usecase.SwitchMode(ctx, sessionID, req.Mode); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	session, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, session.DTO())
}

// UploadDocuments handles POST /chat-session/{id}/documents - Ingest documents
func (h *Handler) UploadDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action", "UploadDocuments"),
	)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "failed to parse form", err)
		return
	}

	headers := r.MultipartForm.File["files"]
	if err := h.validator.ValidateUpload(headers); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	files := make([]entity.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			h.respondError(ctx, w, http.StatusBadRequest, "failed to open uploaded file", err)
			return
		}

		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.respondError(ctx, w, http.StatusBadRequest, "failed to read uploaded file", err)
			return
		}

		files = append(files, entity.UploadedFile{
			Name: validator.SanitizeFilename(fh.Filename),
			Data: data,
		})
	}

	ctxzap.Info(ctx, "ingesting documents", zap.Int("files", len(files)))

	report, err := h.usecase.UploadDocuments(ctx, sessionID, files)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, report)
}

// SendMessage handles POST /chat-session/{id}/messages - Send a message
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action", "SendMessage"),
	)

	var req entity.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctxzap.Info(ctx, "processing message", zap.Int("text_length", len(req.Text)))

	turn, err := h.usecase.SendMessage(ctx, sessionID, req.Text)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, entity.TurnDTO{
		Role:         turn.Role,
		Text:         turn.Text,
		ArtifactPath: turn.ArtifactPath,
		CreatedAt:    turn.CreatedAt,
	})
}

// GetMessages handles GET /chat-session/{id}/messages - Get conversation history
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action", "GetMessages"),
	)

	turns, err := h.usecase.History(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toTurnDTOs(turns))
}

// GetChart handles GET /chat-session/{id}/chart - Download the latest chart
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action", "GetChart"),
	)

	path, err := h.usecase.ChartPath(ctx, sessionID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}

// GetTranscript handles GET /chat-session/{id}/transcript - Export the conversation
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "id")

	ctx = logger.AddFields(ctx,
		zap.String("session_id", sessionID),
		zap.String("action", "GetTranscript"),
	)

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(entity.FormatMarkdown)
	}

	data, contentType, ext, err := h.usecase.Transcript(ctx, sessionID, entity.TranscriptFormat(formatParam))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"transcript-%s%s\"", sessionID, ext))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Helper methods
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	response.JSON(w, status, data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	ctxzap.Error(ctx, message, zap.Error(err))
	h.respondJSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrSessionNotFound) || errors.Is(err, entity.ErrArtifactMissing):
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrWrongMode):
		h.respondError(ctx, w, http.StatusConflict, "operation not allowed in current mode", err)
	case errors.Is(err, entity.ErrInvalidMode) ||
		errors.Is(err, entity.ErrInvalidParameter) ||
		errors.Is(err, entity.ErrMissingField) ||
		errors.Is(err, entity.ErrEmptyBatch):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid parameter", err)
	case errors.Is(err, entity.ErrInvalidExtension) ||
		errors.Is(err, entity.ErrInvalidFile) ||
		errors.Is(err, entity.ErrFileTooLarge) ||
		errors.Is(err, entity.ErrTooManyFiles) ||
		errors.Is(err, entity.ErrTotalSizeTooLarge):
		h.respondError(ctx, w, http.StatusBadRequest, "invalid file", err)
	case errors.Is(err, entity.ErrIndexBuild):
		h.respondError(ctx, w, http.StatusBadGateway, "knowledge index build failed", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
