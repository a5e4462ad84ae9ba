package game

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "4h"
// or "100ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Tuning collects the empirically tuned knobs of a run. Zero fields mean
// "use the default"; the defaults are the values the harness was originally
// tuned with against dfrotz.
type Tuning struct {
	// RetryBase, RetryGrowth and RetryAttempts shape the backoff loop the
	// driver runs while waiting for interpreter output.
	RetryBase     Duration `yaml:"retry_base"`
	RetryGrowth   float64  `yaml:"retry_growth"`
	RetryAttempts int      `yaml:"retry_attempts"`

	// TrackWidth is the deepest strand (in moves) recorded in the progress
	// store when a node finishes.
	TrackWidth int `yaml:"track_width"`
	// RetainFloor is the strand length at or below which entries survive
	// compaction even when a recorded ancestor covers them.
	RetainFloor int `yaml:"retain_floor"`
	// PruneFloor is the shortest ancestor length consulted when deciding
	// whether a node was already fully explored in a previous run.
	PruneFloor int `yaml:"prune_floor"`

	// SaveInterval is how long between discretionary progress saves.
	SaveInterval Duration `yaml:"save_interval"`
	// ReportInterval is how many complete paths between progress summaries.
	ReportInterval int64 `yaml:"report_interval"`
}

// DefaultTuning returns the stock knob settings.
func DefaultTuning() Tuning {
	return Tuning{
		RetryBase:      Duration(100 * time.Millisecond),
		RetryGrowth:    1.48,
		RetryAttempts:  20,
		TrackWidth:     12,
		RetainFloor:    8,
		PruneFloor:     4,
		SaveInterval:   Duration(4 * time.Hour),
		ReportInterval: 1000,
	}
}

// withDefaults fills zero fields from DefaultTuning.
func (t Tuning) withDefaults() Tuning {
	def := DefaultTuning()
	if t.RetryBase == 0 {
		t.RetryBase = def.RetryBase
	}
	if t.RetryGrowth == 0 {
		t.RetryGrowth = def.RetryGrowth
	}
	if t.RetryAttempts == 0 {
		t.RetryAttempts = def.RetryAttempts
	}
	if t.TrackWidth == 0 {
		t.TrackWidth = def.TrackWidth
	}
	if t.RetainFloor == 0 {
		t.RetainFloor = def.RetainFloor
	}
	if t.PruneFloor == 0 {
		t.PruneFloor = def.PruneFloor
	}
	if t.SaveInterval == 0 {
		t.SaveInterval = def.SaveInterval
	}
	if t.ReportInterval == 0 {
		t.ReportInterval = def.ReportInterval
	}
	return t
}
