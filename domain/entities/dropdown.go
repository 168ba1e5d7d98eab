package entities

import (
	"fmt"
	"strings"
)

// DropdownTrigger identifies the control that opens a dropdown, either by its
// associated label text or by a direct selector
type DropdownTrigger struct {
	Selector string `json:"selector,omitempty"`
	Label    string `json:"label,omitempty"`
}

// String - describes the trigger for log and result messages
func (t DropdownTrigger) String() string {
	if t.Label != "" {
		return fmt.Sprintf("dropdown labeled %q", t.Label)
	}
	return fmt.Sprintf("dropdown %q", t.Selector)
}

// DropdownSelectionTarget is either a 1-based option index or option text
type DropdownSelectionTarget struct {
	Index int    `json:"index,omitempty"`
	Text  string `json:"text,omitempty"`
}

// ByIndex - selection target for the index-th valid option (1-based)
func ByIndex(index int) DropdownSelectionTarget {
	return DropdownSelectionTarget{Index: index}
}

// ByText - selection target matched on option text
func ByText(text string) DropdownSelectionTarget {
	return DropdownSelectionTarget{Text: text}
}

// IsIndex - reports whether the target is index based
func (t DropdownSelectionTarget) IsIndex() bool {
	return t.Text == "" && t.Index != 0
}

// String - describes the target
func (t DropdownSelectionTarget) String() string {
	if t.IsIndex() {
		return fmt.Sprintf("option #%d", t.Index)
	}
	return fmt.Sprintf("option %q", t.Text)
}

// OptionCandidate is one entry of an open dropdown
type OptionCandidate struct {
	Selector string            `json:"selector"`
	Text     string            `json:"text"`
	Role     string            `json:"role"`
	Disabled bool              `json:"disabled"`
	Element  ElementDescriptor `json:"element"`
	IsValid  bool              `json:"isValid"`
}

// DropdownContainer is one candidate option-list container present in the document
type DropdownContainer struct {
	Selector      string            `json:"selector"`
	DocumentIndex int               `json:"documentIndex"`
	Element       ElementDescriptor `json:"element"`
	Options       []OptionCandidate `json:"options"`
}

// reservedOptionTexts are placeholder, loading and empty-result sentinels that are never selectable
var reservedOptionTexts = []string{
	"loading results…",
	"loading results...",
	"loading more results…",
	"searching…",
	"searching...",
	"no results found",
	"select...",
	"select…",
	"-- select --",
}

// IsReservedOptionText - reports whether an option text is a placeholder sentinel
func IsReservedOptionText(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return true
	}
	for _, reserved := range reservedOptionTexts {
		if normalized == reserved {
			return true
		}
	}
	return false
}

// IsLoadingText - reports whether an option text signals that results are still loading
func IsLoadingText(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	return strings.HasPrefix(normalized, "loading") || strings.HasPrefix(normalized, "searching")
}

// OptionValidity - visible, role=option, enabled, non-empty and not a reserved sentinel
func OptionValidity(opt OptionCandidate) bool {
	if !opt.Element.IsVisible {
		return false
	}
	if strings.ToLower(opt.Role) != "option" {
		return false
	}
	if opt.Disabled {
		return false
	}
	return !IsReservedOptionText(opt.Text)
}

// ValidOptions - the filtered candidate list that index selection operates on
func (c DropdownContainer) ValidOptions() []OptionCandidate {
	valid := make([]OptionCandidate, 0, len(c.Options))
	for _, opt := range c.Options {
		if opt.IsValid {
			valid = append(valid, opt)
		}
	}
	return valid
}

// IsLoading - reports whether the container still shows a loading sentinel
func (c DropdownContainer) IsLoading() bool {
	for _, opt := range c.Options {
		if opt.Element.IsVisible && IsLoadingText(opt.Text) {
			return true
		}
	}
	return false
}

// TopmostContainer - picks the container a user perceives as on top: highest explicit
// z-index among visible containers, ties and unset z-indices resolved by last in document order
func TopmostContainer(containers []DropdownContainer) (DropdownContainer, bool) {
	var best *DropdownContainer
	for i := range containers {
		c := &containers[i]
		if !c.Element.IsVisible {
			continue
		}
		if best == nil || ranksAbove(*c, *best) {
			best = c
		}
	}
	if best == nil {
		return DropdownContainer{}, false
	}
	return *best, true
}

// ranksAbove - stacking comparison used by TopmostContainer
func ranksAbove(a, b DropdownContainer) bool {
	az, aHas := a.Element.Style.ExplicitZIndex()
	bz, bHas := b.Element.Style.ExplicitZIndex()
	switch {
	case aHas && !bHas:
		return true
	case !aHas && bHas:
		return false
	case aHas && bHas && az != bz:
		return az > bz
	default:
		return a.DocumentIndex > b.DocumentIndex
	}
}
