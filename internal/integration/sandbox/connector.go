// Package sandbox talks to the external code-execution service that
// runs model-authored Python and renders chart files into the shared
// artifact directory.
package sandbox

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/futig/bichat-backend/internal/config"
	"github.com/futig/bichat-backend/internal/entity"
	"github.com/futig/bichat-backend/internal/integration/common"
	pkghttp "github.com/futig/bichat-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.SandboxConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.SandboxConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Execute runs a Python script in the sandbox and returns its stdout.
// Transport-level failures are retried; a script that ran but failed is
// not, since rerunning it would fail the same way.
func (c *Connector) Execute(ctx context.Context, script string) (string, error) {
	ctxzap.Info(ctx, "executing script in sandbox", zap.Int("script_length", len(script)))

	req := &entity.SandboxExecuteRequest{Script: script}

	var resp entity.SandboxExecuteResponse
	err := retry.Do(
		func() error {
			return c.connector.DoRequest(ctx, http.MethodPost, c.config.ExecuteEndpoint, req, &resp)
		},
		append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...,
	)
	if err != nil {
		return "", fmt.Errorf("sandbox request failed: %w", err)
	}

	if resp.Error != "" {
		ctxzap.Warn(ctx, "script execution failed", zap.String("error", resp.Error))
		return "", fmt.Errorf("script execution failed: %s", resp.Error)
	}

	ctxzap.Info(ctx, "script executed successfully", zap.Int("output_length", len(resp.Output)))

	return resp.Output, nil
}
