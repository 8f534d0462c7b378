// Package factcheck looks up third-party fact-checks of similar claims.
package factcheck

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/truthlens/internal/model"
)

// Gateway returns external fact-checks for a claim. Lookup never fails:
// errors degrade to an empty set with provenance "unavailable".
type Gateway interface {
	Lookup(ctx context.Context, claimText string) model.ExternalResultSet
	Name() string
}

// NewGateway returns the live Google gateway when a real API key is
// configured, otherwise the demo gateway
func NewGateway(cfg model.FactCheckConfig, logger *zap.Logger) Gateway {
	if HasLiveKey(cfg.APIKey) {
		return NewGoogleGateway(cfg, logger)
	}
	return NewDemoGateway()
}

// HasLiveKey reports whether an API key selects the live gateway
func HasLiveKey(apiKey string) bool {
	key := strings.TrimSpace(apiKey)
	return key != "" && key != model.DemoAPIKey
}
