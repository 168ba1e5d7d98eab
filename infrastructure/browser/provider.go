package browser

import (
	"bdd_automation/domain/entities"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
)

// transportMarkers are error fragments that mean the browser or driver connection is gone
var transportMarkers = []string{
	"target closed",
	"has been closed",
	"browser closed",
	"connection closed",
	"connection refused",
	"connection reset",
	"invalid session id",
	"session deleted",
	"chrome not reachable",
	"disconnected",
}

// isTransportError - reports whether err means the provider itself is unreachable
func isTransportError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, entities.ErrTransport) || errors.Is(err, playwright.ErrTargetClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range transportMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func transportError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, entities.ErrTransport, err)
}

// canceled - short-circuits an operation whose context is already done
func canceled(ctx context.Context, op string) (entities.ActionResult, bool) {
	if err := ctx.Err(); err != nil {
		return entities.Failed("%s canceled: %v", op, err), true
	}
	return entities.ActionResult{}, false
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// sanitizeName - file-system safe screenshot name, uuid when nothing usable remains
func sanitizeName(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".png")
	name = strings.Trim(unsafeNameChars.ReplaceAllString(name, "_"), "_.")
	if name == "" {
		name = uuid.NewString()
	}
	if len(name) > 120 {
		name = name[:120]
	}
	return name + ".png"
}

// screenshotPath - creates the screenshot directory and returns the target file
func screenshotPath(dir, name string) (string, error) {
	if dir == "" {
		dir = "screenshots"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	return filepath.Join(dir, sanitizeName(name)), nil
}

// queryResult - decodes the element query script output
func queryResult(selector string, evaluated entities.EvalResult, err error) (entities.QueryResult, error) {
	if err != nil || !evaluated.Success {
		return entities.QueryResult{ActionResult: evaluated.ActionResult}, err
	}
	var elements []entities.ElementSummary
	if err := evaluated.Decode(&elements); err != nil {
		return entities.QueryResult{ActionResult: entities.Failed("query %s: %v", selector, err)}, nil
	}
	if elements == nil {
		elements = []entities.ElementSummary{}
	}
	return entities.QueryResult{
		ActionResult: entities.Succeeded("%d element(s) match %s", len(elements), selector),
		Elements:     elements,
	}, nil
}

// inspectResult - decodes the inspection script output; null means no match
func inspectResult(selector string, evaluated entities.EvalResult, err error) (entities.InspectResult, error) {
	if err != nil || !evaluated.Success {
		return entities.InspectResult{ActionResult: evaluated.ActionResult}, err
	}
	if evaluated.Value == nil {
		return entities.InspectResult{ActionResult: entities.Succeeded("no element matches %s", selector)}, nil
	}
	var element entities.ElementDescriptor
	if err := evaluated.Decode(&element); err != nil {
		return entities.InspectResult{ActionResult: entities.Failed("inspect %s: %v", selector, err)}, nil
	}
	element.Normalize()
	return entities.InspectResult{
		ActionResult: entities.Succeeded("inspected %s", selector),
		Found:        true,
		Element:      &element,
	}, nil
}
