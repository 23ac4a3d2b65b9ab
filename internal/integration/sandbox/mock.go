package sandbox

import (
	"context"
	"os"
	"path/filepath"

	"github.com/futig/bichat-backend/internal/config"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// pngStub is a valid 1x1 transparent PNG, enough for artifact
// verification and for a browser to render.
var pngStub = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

// MockConnector simulates the code-execution service: every script
// "succeeds" and a stub chart file appears in the artifact directory.
type MockConnector struct {
	chartCfg config.ChartConfig
	logger   *zap.Logger
}

func NewMockConnector(chartCfg config.ChartConfig, logger *zap.Logger) *MockConnector {
	return &MockConnector{
		chartCfg: chartCfg,
		logger:   logger,
	}
}

func (m *MockConnector) Execute(ctx context.Context, script string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] executing script in sandbox", zap.Int("script_length", len(script)))

	if err := os.MkdirAll(m.chartCfg.ArtifactDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(m.chartCfg.ArtifactDir, m.chartCfg.Filename)
	if err := os.WriteFile(path, pngStub, 0o644); err != nil {
		return "", err
	}

	ctxzap.Info(ctx, "[MOCK] stub chart written", zap.String("path", path))

	return "chart saved to " + m.chartCfg.Filename, nil
}
