// Package agent implements the database analysis answerer: a
// tool-calling model loop that queries the sales database and renders
// charts through the code-execution sandbox.
package agent

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/futig/bichat-backend/internal/config"
	"github.com/futig/bichat-backend/internal/entity"
	"github.com/futig/bichat-backend/internal/repository"
	"go.uber.org/zap"
)

// Executor runs a Python script and returns its stdout.
type Executor interface {
	Execute(ctx context.Context, script string) (string, error)
}

type sqlInput struct {
	Query string `json:"query" jsonschema:"description=A single PostgreSQL SELECT statement to run against the sales database"`
}

type pythonInput struct {
	Script string `json:"script" jsonschema:"description=A complete Python script. matplotlib is available; save figures to the working directory"`
}

// Agent answers analytical questions with a bounded tool loop.
type Agent struct {
	g        *genkit.Genkit
	model    string
	maxTurns int
	system   string
	toolRefs []ai.ToolRef
	logger   *zap.Logger
}

// New registers the agent's tools with genkit and returns the agent.
// Tool closures capture the executors directly; the per-call context
// comes from ai.ToolContext.
func New(
	g *genkit.Genkit,
	cfg config.AIConfig,
	chartCfg config.ChartConfig,
	sales repository.SalesQueryExecutor,
	sandbox Executor,
	logger *zap.Logger,
) *Agent {
	sqlTool := genkit.DefineTool(
		g,
		"execute_sql",
		"Run a read-only SQL SELECT against the sales database and get the result rows as tab-separated text. "+
			"Use this for every factual question about products, sales, purchases, revenue, or stock.",
		func(toolCtx *ai.ToolContext, input sqlInput) (string, error) {
			logger.Info("agent tool call", zap.String("tool", "execute_sql"), zap.String("query", input.Query))

			result, err := sales.RunReadOnlyQuery(toolCtx.Context, input.Query)
			if err != nil {
				// Returned to the model so it can correct the query.
				return "", fmt.Errorf("query failed: %w", err)
			}
			return result, nil
		},
	)

	pythonTool := genkit.DefineTool(
		g,
		"run_python",
		"Execute a Python script in a sandbox and get its stdout. matplotlib is installed. "+
			"Use this to render charts; save the figure to the working directory.",
		func(toolCtx *ai.ToolContext, input pythonInput) (string, error) {
			logger.Info("agent tool call", zap.String("tool", "run_python"), zap.Int("script_length", len(input.Script)))

			output, err := sandbox.Execute(toolCtx.Context, input.Script)
			if err != nil {
				return "", fmt.Errorf("script failed: %w", err)
			}
			return output, nil
		},
	)

	return &Agent{
		g:        g,
		model:    cfg.AgentModel,
		maxTurns: cfg.AgentMaxTurns,
		system:   systemPrompt(chartCfg.Filename),
		toolRefs: []ai.ToolRef{sqlTool, pythonTool},
		logger:   logger,
	}
}

// Answer runs the tool loop for one question and returns the model's
// final text. The conversation history is replayed so follow-up
// questions resolve references like "the same period".
func (a *Agent) Answer(ctx context.Context, question string, history []entity.ConversationTurn) (entity.AnswerResult, error) {
	messages := historyToMessages(history)
	messages = append(messages, ai.NewUserMessage(ai.NewTextPart(question)))

	resp, err := genkit.Generate(ctx, a.g,
		ai.WithModelName(a.model),
		ai.WithSystem(a.system),
		ai.WithMessages(messages...),
		ai.WithTools(a.toolRefs...),
		ai.WithMaxTurns(a.maxTurns),
	)
	if err != nil {
		return entity.AnswerResult{}, fmt.Errorf("generate answer: %w", err)
	}

	return entity.AnswerResult{Text: resp.Text()}, nil
}

// historyToMessages replays prior turns as alternating user and model
// messages. Artifact paths are not replayed; only the text matters to
// the model.
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
