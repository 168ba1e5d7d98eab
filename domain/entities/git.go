package entities

import "time"

// FileChange is the status of one path in the working tree
type FileChange struct {
	Path     string `json:"path"`
	Staging  string `json:"staging"`
	Worktree string `json:"worktree"`
}

// RepositoryStatus summarises the working tree
type RepositoryStatus struct {
	Branch  string       `json:"branch"`
	Head    string       `json:"head"`
	Clean   bool         `json:"clean"`
	Changes []FileChange `json:"changes,omitempty"`
}

// CommitInfo is one log entry
type CommitInfo struct {
	Hash    string    `json:"hash"`
	Author  string    `json:"author"`
	Email   string    `json:"email"`
	When    time.Time `json:"when"`
	Subject string    `json:"subject"`
	Files   []string  `json:"files,omitempty"`
}
