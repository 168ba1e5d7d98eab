package interaction

import (
	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Default container and option selectors for Select2 v4 and v3 markup plus ARIA listboxes
const (
	DefaultDropdownContainerSelectors = `.select2-dropdown, .select2-drop, [role="listbox"]`
	DefaultDropdownOptionSelector     = `.select2-results__option, .select2-result-label, [role="option"]`
)

// Settings tunes retry rounds and wait budgets of one session
type Settings struct {
	MaxAttempts                int
	RoundDelay                 time.Duration
	StrategyTimeout            time.Duration
	PollInterval               time.Duration
	DropdownOpenTimeout        time.Duration
	DropdownCloseTimeout       time.Duration
	DropdownContainerSelectors string
	DropdownOptionSelector     string
	CoordinateFallback         bool
}

// DefaultSettings - returns the stock tuning
func DefaultSettings() Settings {
	return Settings{
		MaxAttempts:                5,
		RoundDelay:                 500 * time.Millisecond,
		StrategyTimeout:            2 * time.Second,
		PollInterval:               100 * time.Millisecond,
		DropdownOpenTimeout:        5 * time.Second,
		DropdownCloseTimeout:       2 * time.Second,
		DropdownContainerSelectors: DefaultDropdownContainerSelectors,
		DropdownOptionSelector:     DefaultDropdownOptionSelector,
	}
}

// withDefaults - fills zero values from DefaultSettings
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = d.MaxAttempts
	}
	if s.RoundDelay < 0 {
		s.RoundDelay = d.RoundDelay
	}
	if s.StrategyTimeout <= 0 {
		s.StrategyTimeout = d.StrategyTimeout
	}
	if s.PollInterval <= 0 {
		s.PollInterval = d.PollInterval
	}
	if s.DropdownOpenTimeout <= 0 {
		s.DropdownOpenTimeout = d.DropdownOpenTimeout
	}
	if s.DropdownCloseTimeout <= 0 {
		s.DropdownCloseTimeout = d.DropdownCloseTimeout
	}
	if s.DropdownContainerSelectors == "" {
		s.DropdownContainerSelectors = d.DropdownContainerSelectors
	}
	if s.DropdownOptionSelector == "" {
		s.DropdownOptionSelector = d.DropdownOptionSelector
	}
	return s
}

// Session binds one live browser provider to the core. A session is owned by a single
// scenario and is not safe for concurrent use.
type Session struct {
	ID       string
	provider interfaces.ActionProvider
	log      *logrus.Entry
	settings Settings
}

// NewSession - creates a session over an initialized provider
func NewSession(provider interfaces.ActionProvider, logger *logrus.Logger, settings Settings) (*Session, error) {
	if provider == nil {
		return nil, entities.ErrProviderNotInitialized
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	id := uuid.NewString()
	return &Session{
		ID:       id,
		provider: provider,
		log:      logger.WithField("session", id[:8]),
		settings: settings.withDefaults(),
	}, nil
}

// Primitives - returns the action primitives adapter bound to this session
func (s *Session) Primitives() Primitives {
	return Primitives{provider: s.provider}
}

// Settings - returns the effective tuning
func (s *Session) Settings() Settings {
	return s.settings
}

// Logger - returns the session scoped log entry
func (s *Session) Logger() *logrus.Entry {
	return s.log
}

// Close - closes the underlying provider
func (s *Session) Close() error {
	if s == nil || s.provider == nil {
		return nil
	}
	return s.provider.Close()
}

// check - precondition for every core entry point
func (s *Session) check() error {
	if s == nil || s.provider == nil {
		return entities.ErrProviderNotInitialized
	}
	return nil
}
