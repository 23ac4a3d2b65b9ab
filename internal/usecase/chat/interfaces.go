package chat

import (
	"context"

	"github.com/futig/bichat-backend/internal/docqa"
	"github.com/futig/bichat-backend/internal/entity"
	"github.com/futig/bichat-backend/internal/index"
)

// ChartProducer answers database analysis questions, possibly emitting
// a chart marker in the returned text.
type ChartProducer interface {
	Answer(ctx context.Context, question string, history []entity.ConversationTurn) (entity.AnswerResult, error)
}

// DocAnswerer answers document questions grounded on a session index.
type DocAnswerer interface {
	Answer(ctx context.Context, retriever docqa.Retriever, question string, history []entity.ConversationTurn) (entity.AnswerResult, error)
}

// Extractor turns an upload batch into text and text into chunks.
type Extractor interface {
	Extract(files []entity.UploadedFile) (string, int, []string, error)
	Chunk(text string) []string
}

// IndexBuilder embeds chunks and assembles a searchable index.
type IndexBuilder interface {
	Build(ctx context.Context, chunks []string) (*index.Index, error)
}
