package mcpserver

import (
	"bdd_automation/application/interaction"
	"bdd_automation/application/runner"
	"bdd_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Dependencies are everything the servers may need; each server uses a subset
type Dependencies struct {
	Factory     interfaces.ProviderFactory
	Settings    interaction.Settings
	Logger      *logrus.Logger
	RepoPath    string
	LogLimit    int
	FeaturesDir string
	Patterns    []string
	Runner      *runner.Runner
	Store       interfaces.RunStore
}
