// Package docqa implements the document analysis answerer: retrieval
// over the session's knowledge index followed by strictly grounded
// question answering.
package docqa

import (
	"context"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/futig/bichat-backend/internal/config"
	"github.com/futig/bichat-backend/internal/entity"
	"go.uber.org/zap"
)

const systemPrompt = `You answer questions using ONLY the context excerpts provided in the user message.
If the context does not contain the answer, say that you don't know; do not guess and do not use outside knowledge.
Answer concisely and quote figures exactly as they appear in the context.`

// Retriever returns the k chunks most relevant to a query, nearest
// first. *index.Index satisfies it.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]string, error)
}

// Answerer generates grounded answers from retrieved context.
type Answerer struct {
	g      *genkit.Genkit
	model  string
	topK   int
	logger *zap.Logger
}

func NewAnswerer(g *genkit.Genkit, cfg config.AIConfig, logger *zap.Logger) *Answerer {
	return &Answerer{
		g:      g,
		model:  cfg.DocQAModel,
		topK:   cfg.RetrievalTopK,
		logger: logger,
	}
}

// Answer retrieves context for the question and asks the model to
// answer from that context alone. The caller supplies the retriever
// because each session owns its own index.
func (a *Answerer) Answer(
	ctx context.Context,
	retriever Retriever,
	question string,
	history []entity.ConversationTurn,
) (entity.AnswerResult, error) {
	chunks, err := retriever.Search(ctx, question, a.topK)
	if err != nil {
		return entity.AnswerResult{}, fmt.Errorf("retrieve context: %w", err)
	}

	a.logger.Info("retrieved context for question",
		zap.Int("chunks", len(chunks)),
		zap.Int("question_length", len(question)),
	)

	messages := historyToMessages(history)
	messages = append(messages, ai.NewUserMessage(ai.NewTextPart(renderQuestion(question, chunks))))

	resp, err := genkit.Generate(ctx, a.g,
		ai.WithModelName(a.model),
		ai.WithSystem(systemPrompt),
		ai.WithMessages(messages...),
	)
	if err != nil {
		return entity.AnswerResult{}, fmt.Errorf("generate answer: %w", err)
	}

	return entity.AnswerResult{Text: resp.Text()}, nil
}

// renderQuestion packs the retrieved excerpts and the question into one
// user message so the context travels with the turn it belongs to.
func renderQuestion(question string, chunks []string) string {
	var sb strings.Builder
	sb.WriteString("Context excerpts:\n")
	for i, chunk := range chunks {
		sb.WriteString(fmt.Sprintf("\n[%d] %s\n", i+1, chunk))
	}
	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)
	return sb.String()
}

func historyToMessages(history []entity.ConversationTurn) []*ai.Message {
	messages := make([]*ai.Message, 0, len(history)+1)
	for _, turn := range history {
		switch turn.Role {
		case entity.RoleUser:
			messages = append(messages, ai.NewUserMessage(ai.NewTextPart(turn.Text)))
		case entity.RoleAssistant:
			messages = append(messages, ai.NewModelMessage(ai.NewTextPart(turn.Text)))
		}
	}
	return messages
}
