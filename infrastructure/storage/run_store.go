package storage

import (
	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	lastRunFile = "last_run.json"
	historyFile = "history.json"
)

type runStore struct {
	mu           sync.Mutex
	lastRunPath  string
	historyPath  string
	historyLimit int
}

// NewRunStore - creates run summary storage under dir. History keeps at most
// historyLimit summaries, newest last; zero or less keeps everything.
func NewRunStore(dir string, historyLimit int) (interfaces.RunStore, error) {
	if dir == "" {
		dir = ".bdd"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &runStore{
		lastRunPath:  filepath.Join(dir, lastRunFile),
		historyPath:  filepath.Join(dir, historyFile),
		historyLimit: historyLimit,
	}, nil
}

// SaveSummary - stores the summary as the last run and appends it to history
func (s *runStore) SaveSummary(summary entities.RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeJSON(s.lastRunPath, summary); err != nil {
		return fmt.Errorf("failed to save last run: %w", err)
	}

	history, err := s.loadHistory()
	if err != nil {
		return err
	}
	history = append(history, summary)
	if s.historyLimit > 0 && len(history) > s.historyLimit {
		history = history[len(history)-s.historyLimit:]
	}
	if err := writeJSON(s.historyPath, history); err != nil {
		return fmt.Errorf("failed to save run history: %w", err)
	}
	return nil
}

// LastSummary - loads the most recent summary; ok is false when nothing was stored yet
func (s *runStore) LastSummary() (entities.RunSummary, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.lastRunPath)
	if err != nil {
		if os.IsNotExist(err) {
			return entities.RunSummary{}, false, nil
		}
		return entities.RunSummary{}, false, err
	}

	var summary entities.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return entities.RunSummary{}, false, fmt.Errorf("corrupt last run file: %w", err)
	}
	return summary, true, nil
}

// History - loads stored summaries, oldest first
func (s *runStore) History() ([]entities.RunSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadHistory()
}

func (s *runStore) loadHistory() ([]entities.RunSummary, error) {
	data, err := os.ReadFile(s.historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []entities.RunSummary{}, nil
		}
		return nil, err
	}

	var history []entities.RunSummary
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("corrupt run history: %w", err)
	}
	return history, nil
}

// writeJSON - writes through a temp file so readers never see a partial document
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
