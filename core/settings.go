package core

import "fmt"

// Settings captures the caller-supplied knobs for one refinement session.
// Immutable once the session starts.
type Settings struct {
	// MinOutputWords and MaxOutputWords bound the refined text length.
	// Violations are advisory: they are recorded as validation errors on a
	// completed record, never as failures.
	MinOutputWords int `yaml:"min_output_words" json:"min_output_words"`
	MaxOutputWords int `yaml:"max_output_words" json:"max_output_words"`

	// IncludeProjectContext controls whether agents may use their
	// capabilities to read project files while refining.
	IncludeProjectContext bool `yaml:"include_project_context" json:"include_project_context"`

	// EnableSynthesis requests the optional final pass merging completed
	// refinements into one. It only runs when at least two agents complete.
	EnableSynthesis bool `yaml:"enable_synthesis" json:"enable_synthesis"`
}

// DefaultSettings mirrors the defaults of the original planner UI.
var DefaultSettings = Settings{
	MinOutputWords: 100,
	MaxOutputWords: 300,
}

// Validate reports ErrInvalidSettings for inconsistent bounds. Sessions
// with invalid settings are rejected before any dispatch.
func (s Settings) Validate() error {
	if s.MinOutputWords <= 0 || s.MaxOutputWords <= 0 {
		return fmt.Errorf("%w: output bounds must be positive", ErrInvalidSettings)
	}

	if s.MaxOutputWords < s.MinOutputWords {
		return fmt.Errorf("%w: max output %d below min %d", ErrInvalidSettings, s.MaxOutputWords, s.MinOutputWords)
	}

	return nil
}
