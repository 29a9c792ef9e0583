// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/bookclub/internal/app/store/oauthstate"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// The oauth_states collection has a TTL index, but TTL sweeps lag by up to
// a minute; clearing leftovers here keeps restarts tidy.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	removed, err := oauthstate.New(deps.BookClubMongoDatabase).CleanupExpired(ctx)
	if err != nil {
		logger.Warn("oauth state cleanup failed", zap.Error(err))
		return nil
	}
	if removed > 0 {
		logger.Info("removed expired oauth states", zap.Int64("count", removed))
	}
	return nil
}
