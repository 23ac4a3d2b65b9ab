package chat

import (
	"context"

	"github.com/futig/bichat-backend/internal/entity"
	usecase "github.com/futig/bichat-backend/internal/usecase/chat"
)

type ChatUsecase interface {
	CreateSession(ctx context.Context, mode entity.Mode) (*usecase.Session, error)
	GetSession(ctx context.Context, id string) (*usecase.Session, error)
	SwitchMode(ctx context.Context, id string, mode entity.Mode) error
	UploadDocuments(ctx context.Context, id string, files []entity.UploadedFile) (*entity.IngestReport, error)
	SendMessage(ctx context.Context, id string, text string) (entity.ConversationTurn, error)
	History(ctx context.Context, id string) ([]entity.ConversationTurn, error)
	ChartPath(ctx context.Context, id string) (string, error)
	Transcript(ctx context.Context, id string, format entity.TranscriptFormat) ([]byte, string, string, error)
}
