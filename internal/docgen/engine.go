// Package docgen walks the recognised policy schema of a loaded values
// document, resolves name-based relationships between policies and their
// sub-policies, detects orphaned entries and dangling references, and renders
// per-element markdown reports plus the cross-element index.
package docgen

import (
	"fmt"
	"time"

	"github.com/policystack/stackdoc/internal/yamldoc"
)

// Result is the output of one engine run over one element.
type Result struct {
	Markdown string
	Summary  Summary
	Warnings []Warning
}

// Generate renders the documentation for one element. It returns (nil, nil)
// when the values document holds no configuration under the element's
// component key, which callers treat as "nothing to document" rather than an
// error. Each run is independent of every other element's data.
func Generate(el *Element, now time.Time) (*Result, error) {
	compNode := yamldoc.MapValue(yamldoc.MapValue(el.Doc.Body(), "stack"), el.ComponentName())
	if compNode == nil {
		return nil, nil
	}

	var comp Component
	if err := compNode.Decode(&comp); err != nil {
		return nil, fmt.Errorf("element %s: decode stack.%s: %w", el.Name, el.ComponentName(), err)
	}

	markdown, warnings := renderElement(el, &comp, now)
	return &Result{
		Markdown: markdown,
		Summary:  Summarize(&comp),
		Warnings: warnings,
	}, nil
}
