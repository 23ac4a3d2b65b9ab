// Package index builds the in-memory similarity index the document
// analysis mode answers from. The index is owned by a session and is
// rebuilt from scratch on every upload batch; it never persists.
package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/firebase/genkit/go/ai"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	queryCacheTTL     = 30 * time.Minute
	queryCacheCleanup = 10 * time.Minute
)

// Embedder is the slice of the genkit embedder this package needs.
// ai.Embedder satisfies it.
type Embedder interface {
	Embed(ctx context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error)
}

// Builder constructs knowledge indexes from chunk lists.
type Builder struct {
	embedder Embedder
	logger   *zap.Logger
}

func NewBuilder(embedder Embedder, logger *zap.Logger) *Builder {
	return &Builder{
		embedder: embedder,
		logger:   logger,
	}
}

// Build embeds every chunk in one batch call and assembles the index.
// A single embedding failure aborts the whole build; no partial index
// is ever returned.
func (b *Builder) Build(ctx context.Context, chunks []string) (*Index, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("cannot build index from zero chunks")
	}

	docs := make([]*ai.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = ai.DocumentFromText(chunk, nil)
	}

	resp, err := b.embedder.Embed(ctx, &ai.EmbedRequest{Input: docs})
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(resp.Embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(resp.Embeddings), len(chunks))
	}

	vectors := make([][]float32, len(chunks))
	for i, emb := range resp.Embeddings {
		vectors[i] = emb.Embedding
	}

	b.logger.Info("knowledge index built",
		zap.Int("chunks", len(chunks)),
		zap.Int("dimensions", len(vectors[0])),
	)

	return &Index{
		embedder:   b.embedder,
		chunks:     chunks,
		vectors:    vectors,
		queryCache: gocache.New(queryCacheTTL, queryCacheCleanup),
	}, nil
}

// Index is a similarity-searchable set of (embedding, chunk) pairs.
// It is accessed by one logical thread of control at a time (the
// session's turn loop), so reads are not locked; the query cache has
// its own internal locking.
type Index struct {
	embedder   Embedder
	chunks     []string
	vectors    [][]float32
	queryCache *gocache.Cache
}

// Len reports the number of indexed chunks.
func (ix *Index) Len() int {
	return len(ix.chunks)
}

// Search embeds the query and returns the k nearest chunks by cosine
// similarity, nearest first.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]string, error) {
	if k <= 0 {
		return nil, nil
	}

	queryVec, err := ix.embedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	type scored struct {
		idx   int
		score float64
	}

	results := make([]scored, len(ix.chunks))
	for i, vec := range ix.vectors {
		results[i] = scored{idx: i, score: cosineSimilarity(queryVec, vec)}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if k > len(results) {
		k = len(results)
	}

	top := make([]string, k)
	for i := 0; i < k; i++ {
		top[i] = ix.chunks[results[i].idx]
	}

	return top, nil
}

// embedQuery memoizes query embeddings: asking the same question twice
// in a session embeds it once.
func (ix *Index) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if cached, ok := ix.queryCache.Get(query); ok {
		return cached.([]float32), nil
	}

	resp, err := ix.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{ai.DocumentFromText(query, nil)},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}

	vec := resp.Embeddings[0].Embedding
	ix.queryCache.Set(query, vec, gocache.DefaultExpiration)
	return vec, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
