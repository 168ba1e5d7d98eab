package browser

import (
	"bdd_automation/domain/interfaces"
	"bdd_automation/infrastructure/config"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// NewFactory - provider factory for the configured engine. Every call launches a
// fresh, isolated browser.
func NewFactory(cfg config.BrowserConfig, logger *logrus.Logger) interfaces.ProviderFactory {
	return interfaces.ProviderFactoryFunc(func(ctx context.Context) (interfaces.ActionProvider, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch cfg.Engine {
		case config.EngineSelenium:
			provider, err := NewSeleniumProvider(cfg, logger)
			if err != nil {
				return nil, err
			}
			return provider, nil
		case config.EnginePlaywright, "":
			provider, err := NewPlaywrightProvider(cfg, logger)
			if err != nil {
				return nil, err
			}
			return provider, nil
		default:
			return nil, fmt.Errorf("unknown browser engine %q", cfg.Engine)
		}
	})
}
