package builder

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/futig/bichat-backend/internal/config"
)

// setupGenkit initializes the genkit runtime with the Google AI plugin
// and resolves the embedder. The GEMINI_API_KEY env var is read by the
// plugin itself.
func setupGenkit(ctx context.Context, cfg config.AIConfig) (*genkit.Genkit, ai.Embedder, error) {
	g := genkit.Init(ctx,
		genkit.WithPlugins(&googlegenai.GoogleAI{}),
	)
	if g == nil {
		return nil, nil, fmt.Errorf("initialize genkit")
	}

	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedder == nil {
		return nil, nil, fmt.Errorf("resolve embedder %q", cfg.EmbedderModel)
	}

	return g, embedder, nil
}
