// Package steps binds Gherkin phrases to the interaction core. Every scenario gets its
// own browser session, created before the first step and closed after the last.
package steps

import (
	"bdd_automation/application/interaction"
	"bdd_automation/domain/interfaces"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/sirupsen/logrus"
)

// Dependencies are shared by all scenarios of a suite
type Dependencies struct {
	Factory    interfaces.ProviderFactory
	Logger     *logrus.Logger
	Settings   interaction.Settings
	Interactor *interaction.Interactor
	// VisibilityTimeout bounds "I should (not) see" and "I wait for" steps
	VisibilityTimeout   time.Duration
	ScreenshotOnFailure bool
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Logger == nil {
		d.Logger = logrus.New()
		d.Logger.SetOutput(io.Discard)
	}
	if d.Interactor == nil {
		d.Interactor = interaction.NewInteractor()
	}
	if d.VisibilityTimeout <= 0 {
		d.VisibilityTimeout = 5 * time.Second
	}
	return d
}

// scenario is the per-scenario state behind the step functions
type scenario struct {
	deps    Dependencies
	name    string
	session *interaction.Session
}

// Register - binds every step definition and the session lifecycle hooks
func Register(sc *godog.ScenarioContext, deps Dependencies) {
	deps = deps.withDefaults()
	state := &scenario{deps: deps}

	sc.Before(state.open)
	sc.After(state.close)

	for _, def := range definitions() {
		sc.Step(def.Pattern, def.handler(state))
	}
}

// Patterns - the registered step expressions, used for coverage reports
func Patterns() []string {
	defs := definitions()
	patterns := make([]string, 0, len(defs))
	for _, def := range defs {
		patterns = append(patterns, def.Pattern)
	}
	return patterns
}

func (s *scenario) open(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
	if s.deps.Factory == nil {
		return ctx, fmt.Errorf("no browser provider factory configured")
	}
	provider, err := s.deps.Factory.NewProvider(ctx)
	if err != nil {
		return ctx, fmt.Errorf("failed to start browser: %w", err)
	}
	session, err := interaction.NewSession(provider, s.deps.Logger, s.deps.Settings)
	if err != nil {
		provider.Close()
		return ctx, err
	}
	s.name = sc.Name
	s.session = session
	session.Logger().WithField("scenario", sc.Name).Debug("Scenario session started")
	return ctx, nil
}

func (s *scenario) close(ctx context.Context, sc *godog.Scenario, stepErr error) (context.Context, error) {
	if s.session == nil {
		return ctx, nil
	}
	log := s.session.Logger().WithField("scenario", sc.Name)
	if stepErr != nil && s.deps.ScreenshotOnFailure {
		shot, err := s.session.Primitives().Screenshot(ctx, "failed-"+sc.Name)
		switch {
		case err != nil:
			log.Warnf("Failed to capture failure screenshot: %v", err)
		case shot.Success:
			log.Infof("Failure screenshot: %s", shot.Path)
		}
	}
	if err := s.session.Close(); err != nil {
		log.Warnf("Failed to close browser: %v", err)
	}
	s.session = nil
	return ctx, nil
}

// SuiteOptions configure a godog run
type SuiteOptions struct {
	Name        string
	Paths       []string
	Format      string
	Tags        string
	Strict      bool
	Concurrency int
	Output      io.Writer
	// Context is the parent of every scenario context
	Context context.Context
	// FeatureContents runs in-memory features instead of Paths
	FeatureContents []godog.Feature
}

// NewSuite - builds a godog suite whose scenarios use deps
func NewSuite(opts SuiteOptions, deps Dependencies) godog.TestSuite {
	if opts.Name == "" {
		opts.Name = "bdd"
	}
	if opts.Format == "" {
		opts.Format = "pretty"
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	return godog.TestSuite{
		Name: opts.Name,
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			Register(sc, deps)
		},
		Options: &godog.Options{
			Format:          opts.Format,
			Paths:           opts.Paths,
			Tags:            strings.TrimSpace(opts.Tags),
			Strict:          opts.Strict,
			Concurrency:     opts.Concurrency,
			Output:          opts.Output,
			DefaultContext:  opts.Context,
			FeatureContents: opts.FeatureContents,
		},
	}
}
