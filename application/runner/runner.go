// Package runner executes feature files in separate processes and summarizes their
// cucumber reports. Each process starts its own browser, so features never share one.
package runner

import (
	"bdd_automation/domain/entities"
	"bdd_automation/domain/interfaces"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// execCommandContext is replaced in tests
var execCommandContext = exec.CommandContext

// Options configure how feature processes are spawned
type Options struct {
	// Command is the executable that understands "run --format cucumber"; defaults to this binary
	Command  string
	Parallel int
	// Timeout bounds a single feature process; zero means no limit
	Timeout time.Duration
	Strict  bool
	Env     []string
}

// Runner spawns one process per feature file
type Runner struct {
	opts  Options
	store interfaces.RunStore
	log   *logrus.Entry
}

// New - creates a runner; store may be nil when summaries should not be persisted
func New(opts Options, store interfaces.RunStore, logger *logrus.Logger) *Runner {
	if opts.Command == "" {
		if exe, err := os.Executable(); err == nil {
			opts.Command = exe
		} else {
			opts.Command = os.Args[0]
		}
	}
	if opts.Parallel < 1 {
		opts.Parallel = 1
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Runner{opts: opts, store: store, log: logger.WithField("component", "runner")}
}

// Run - executes every requested feature, at most Parallel at a time, and returns the
// combined summary. A failing feature never stops the others.
func (r *Runner) Run(ctx context.Context, req entities.RunRequest) (entities.RunSummary, error) {
	if len(req.Features) == 0 {
		return entities.RunSummary{}, errors.New("no feature files to run")
	}
	parallel := r.opts.Parallel
	if req.Parallel > 0 {
		parallel = req.Parallel
	}

	started := time.Now()
	reports := make([][]CucumberFeature, len(req.Features))
	processes := make([]entities.FeatureRun, len(req.Features))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, feature := range req.Features {
		g.Go(func() error {
			reports[i], processes[i] = r.runFeature(gctx, feature, req.Tags)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return entities.RunSummary{}, fmt.Errorf("test run canceled: %w", err)
	}

	var all []CucumberFeature
	for _, report := range reports {
		all = append(all, report...)
	}
	summary := Summarize(all)
	summary.ID = uuid.NewString()
	summary.StartedAt = started
	summary.Duration = time.Since(started)
	summary.Processes = processes

	r.log.WithFields(logrus.Fields{
		"run":       summary.ID[:8],
		"features":  len(req.Features),
		"scenarios": summary.Scenarios.Total,
		"failed":    summary.Scenarios.Failed,
	}).Info("Test run finished")

	if r.store != nil {
		if err := r.store.SaveSummary(summary); err != nil {
			return summary, fmt.Errorf("failed to store run summary: %w", err)
		}
	}
	return summary, nil
}

func (r *Runner) args(feature, tags string) []string {
	args := []string{"run", "--format", "cucumber"}
	if tags = strings.TrimSpace(tags); tags != "" {
		args = append(args, "--tags", tags)
	}
	if r.opts.Strict {
		args = append(args, "--strict")
	}
	return append(args, feature)
}

// runFeature - runs one feature process and parses whatever report it printed
func (r *Runner) runFeature(ctx context.Context, feature, tags string) ([]CucumberFeature, entities.FeatureRun) {
	run := entities.FeatureRun{Path: feature}
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := execCommandContext(ctx, r.opts.Command, r.args(feature, tags)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if len(r.opts.Env) > 0 {
		cmd.Env = append(os.Environ(), r.opts.Env...)
	}

	log := r.log.WithField("feature", feature)
	log.Debug("Starting feature process")
	start := time.Now()
	err := cmd.Run()
	run.Duration = time.Since(start)
	run.Stderr = strings.TrimSpace(stderr.String())

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		run.ExitCode = exitErr.ExitCode()
	default:
		run.ExitCode = -1
		run.Error = err.Error()
		log.Warnf("Feature process failed to run: %v", err)
		return nil, run
	}
	if ctx.Err() != nil {
		run.Error = fmt.Sprintf("feature process interrupted: %v", ctx.Err())
	}

	report, err := ParseCucumber(&stdout)
	if err != nil {
		run.Error = err.Error()
		log.Warnf("Unreadable report: %v", err)
		return nil, run
	}
	log.WithField("exit_code", run.ExitCode).Debug("Feature process finished")
	return report, run
}
