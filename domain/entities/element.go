package entities

import "strconv"

// BoundingBox represents an element rectangle relative to the viewport
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Area - returns the box area, zero for degenerate boxes
func (b BoundingBox) Area() float64 {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// Center - returns the centre point of the box
func (b BoundingBox) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// ComputedStyle is the subset of computed CSS the interaction core relies on
type ComputedStyle struct {
	Display       string `json:"display"`
	Visibility    string `json:"visibility"`
	Opacity       string `json:"opacity"`
	PointerEvents string `json:"pointerEvents"`
	ZIndex        string `json:"zIndex"`
	Position      string `json:"position"`
}

// OpacityValue - parses opacity, treating unparseable values as fully opaque
func (s ComputedStyle) OpacityValue() float64 {
	if s.Opacity == "" {
		return 1
	}
	v, err := strconv.ParseFloat(s.Opacity, 64)
	if err != nil {
		return 1
	}
	return v
}

// ExplicitZIndex - returns the z-index when it is set to an integer ("auto" is not explicit)
func (s ComputedStyle) ExplicitZIndex() (int, bool) {
	if s.ZIndex == "" || s.ZIndex == "auto" {
		return 0, false
	}
	v, err := strconv.Atoi(s.ZIndex)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ElementDescriptor describes a single element at the moment it was inspected.
// It is never cached across interaction attempts.
type ElementDescriptor struct {
	Tag         string            `json:"tag"`
	TextContent string            `json:"textContent"`
	Attributes  map[string]string `json:"attributes"`
	BoundingBox BoundingBox       `json:"boundingBox"`
	Style       ComputedStyle     `json:"computedStyle"`
	// InLayout reports the offsetParent-equivalent check: the ownership chain reaches the
	// document root without passing through a display:none ancestor.
	InLayout  bool `json:"inLayout"`
	IsVisible bool `json:"isVisible"`
}

// ComputeVisibility - derives visibility from CSS, layout ownership and geometry signals.
// A widget that passes the CSS checks but has no area or no layout owner is not visible.
func ComputeVisibility(style ComputedStyle, inLayout bool, box BoundingBox) bool {
	if style.Visibility == "hidden" || style.Visibility == "collapse" {
		return false
	}
	if style.OpacityValue() <= 0 {
		return false
	}
	if !inLayout {
		return false
	}
	return box.Area() > 0
}

// Normalize - recomputes the derived visibility flag from the raw signals
func (d *ElementDescriptor) Normalize() {
	if d.Attributes == nil {
		d.Attributes = map[string]string{}
	}
	d.IsVisible = ComputeVisibility(d.Style, d.InLayout, d.BoundingBox)
}

// ElementSummary is the lightweight shape returned by element queries
type ElementSummary struct {
	Text    string `json:"text"`
	Visible bool   `json:"visible"`
}
