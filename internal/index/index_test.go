package index

import (
	"context"
	"errors"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"go.uber.org/zap"
)

// fakeEmbedder maps known texts to fixed vectors so search ordering is
// deterministic. Unknown texts get a zero vector.
type fakeEmbedder struct {
	vectors map[string][]float32
	calls   int
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	resp := &ai.EmbedResponse{}
	for _, doc := range req.Input {
		text := ""
		if len(doc.Content) > 0 {
			text = doc.Content[0].Text
		}
		vec, ok := f.vectors[text]
		if !ok {
			vec = []float32{0, 0, 0}
		}
		resp.Embeddings = append(resp.Embeddings, &ai.Embedding{Embedding: vec})
	}
	return resp, nil
}

func TestBuildRejectsEmptyChunks(t *testing.T) {
	b := NewBuilder(&fakeEmbedder{}, zap.NewNop())

	if _, err := b.Build(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty chunk list")
	}
}

func TestBuildAbortsOnEmbedderFailure(t *testing.T) {
	emb := &fakeEmbedder{err: errors.New("quota exceeded")}
	b := NewBuilder(emb, zap.NewNop())

	ix, err := b.Build(context.Background(), []string{"alpha", "beta"})
	if err == nil {
		t.Fatal("expected error when embedder fails")
	}
	if ix != nil {
		t.Fatal("expected no partial index on failure")
	}
}

func TestSearchReturnsNearestFirst(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"cats are pets":      {1, 0, 0},
		"dogs are pets":      {0.9, 0.1, 0},
		"planets orbit":      {0, 0, 1},
		"tell me about cats": {1, 0, 0},
	}}
	b := NewBuilder(emb, zap.NewNop())

	ix, err := b.Build(context.Background(), []string{"cats are pets", "dogs are pets", "planets orbit"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if ix.Len() != 3 {
		t.Fatalf("expected 3 indexed chunks, got %d", ix.Len())
	}

	got, err := ix.Search(context.Background(), "tell me about cats", 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	want := []string{"cats are pets", "dogs are pets"}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSearchClampsKToIndexSize(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"only chunk": {1, 1, 1},
		"query":      {1, 1, 1},
	}}
	b := NewBuilder(emb, zap.NewNop())

	ix, err := b.Build(context.Background(), []string{"only chunk"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	got, err := ix.Search(context.Background(), "query", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
}

func TestSearchMemoizesQueryEmbedding(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"chunk": {1, 0, 0},
		"query": {1, 0, 0},
	}}
	b := NewBuilder(emb, zap.NewNop())

	ix, err := b.Build(context.Background(), []string{"chunk"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	callsAfterBuild := emb.calls

	for i := 0; i < 3; i++ {
		if _, err := ix.Search(context.Background(), "query", 1); err != nil {
			t.Fatalf("search %d: %v", i, err)
		}
	}

	if emb.calls != callsAfterBuild+1 {
		t.Errorf("expected 1 embed call for 3 identical queries, got %d", emb.calls-callsAfterBuild)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
