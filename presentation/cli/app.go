package cli

import (
	"bdd_automation/application/interaction"
	"bdd_automation/application/runner"
	"bdd_automation/application/steps"
	"bdd_automation/domain/interfaces"
	"bdd_automation/infrastructure/browser"
	"bdd_automation/infrastructure/config"
	"bdd_automation/infrastructure/logging"
	"bdd_automation/infrastructure/storage"
	"bdd_automation/presentation/mcpserver"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// app wires configuration, logging and the infrastructure for one command invocation
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
	closer io.Closer
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &app{cfg: cfg, logger: logger, closer: closer}, nil
}

func (a *app) Close() error {
	return a.closer.Close()
}

func (a *app) settings() interaction.Settings {
	ic := a.cfg.Interaction
	return interaction.Settings{
		MaxAttempts:                ic.MaxAttempts,
		RoundDelay:                 ic.RoundDelay,
		StrategyTimeout:            ic.StrategyTimeout,
		PollInterval:               ic.PollInterval,
		DropdownOpenTimeout:        ic.DropdownOpenTimeout,
		DropdownCloseTimeout:       ic.DropdownCloseTimeout,
		DropdownContainerSelectors: ic.DropdownContainerSelectors,
		DropdownOptionSelector:     ic.DropdownOptionSelector,
		CoordinateFallback:         ic.CoordinateFallback,
	}
}

func (a *app) factory() interfaces.ProviderFactory {
	return browser.NewFactory(a.cfg.Browser, a.logger)
}

func (a *app) store() (interfaces.RunStore, error) {
	return storage.NewRunStore(a.cfg.Storage.Dir, a.cfg.Storage.HistoryLimit)
}

func (a *app) runner(store interfaces.RunStore) *runner.Runner {
	rc := a.cfg.Runner
	return runner.New(runner.Options{
		Command:  rc.Command,
		Parallel: rc.Parallel,
		Timeout:  rc.Timeout,
		Strict:   rc.Strict,
	}, store, a.logger)
}

func (a *app) stepDependencies() steps.Dependencies {
	return steps.Dependencies{
		Factory:             a.factory(),
		Logger:              a.logger,
		Settings:            a.settings(),
		VisibilityTimeout:   a.cfg.Browser.ActionTimeout,
		ScreenshotOnFailure: true,
	}
}

func (a *app) serverDependencies() (mcpserver.Dependencies, error) {
	store, err := a.store()
	if err != nil {
		return mcpserver.Dependencies{}, err
	}
	return mcpserver.Dependencies{
		Factory:     a.factory(),
		Settings:    a.settings(),
		Logger:      a.logger,
		RepoPath:    a.cfg.Git.RepoPath,
		LogLimit:    a.cfg.Git.LogLimit,
		FeaturesDir: a.cfg.Runner.FeaturesDir,
		Patterns:    steps.Patterns(),
		Runner:      a.runner(store),
		Store:       store,
	}, nil
}
