// Package plan loads a YAML run plan for non-interactive runs.
//
// A plan pre-answers the interactive prompts: which mode to run, how to
// delete, which chat to target and whether the link-mode confirmation
// is implied. Values the plan leaves out are still asked interactively.
package plan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Run modes accepted in the mode field.
const (
	ModeKeywords = "keywords"
	ModeLinks    = "links"
)

// Plan is a parsed run plan.
type Plan struct {
	// Mode selects keyword or link cleaning. Required.
	Mode string `yaml:"mode"`

	// Revoke answers the delete-for-everyone prompt when set.
	Revoke *bool `yaml:"delete_for_everyone"`

	// Target restricts a keyword run to one chat (title or @username).
	// Empty means all dialogs.
	Target string `yaml:"target"`

	// Confirm answers the link-mode confirmation prompt when set.
	Confirm *bool `yaml:"confirm"`
}

// Load reads and validates a plan file.
func Load(path string) (*Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse plan file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan %s: %w", path, err)
	}
	return &p, nil
}

// Validate checks plan fields for consistency.
func (p *Plan) Validate() error {
	switch p.Mode {
	case ModeKeywords, ModeLinks:
	case "":
		return fmt.Errorf("mode is required (%q or %q)", ModeKeywords, ModeLinks)
	default:
		return fmt.Errorf("unknown mode %q (want %q or %q)", p.Mode, ModeKeywords, ModeLinks)
	}

	if p.Mode == ModeLinks && p.Target != "" {
		return fmt.Errorf("target only applies to %s mode", ModeKeywords)
	}
	return nil
}
