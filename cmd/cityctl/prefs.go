package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/cityscout"
)

// readPreferences decodes a YAML preferences file keyed like the HTTP body.
func readPreferences(path string) (cityscout.PreferenceParams, error) {
	var p cityscout.PreferenceParams
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read preferences: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return p, fmt.Errorf("parse preferences %s: %w", path, err)
	}
	return p, nil
}

// mergePreferences overlays the flags set on the command line onto base.
func mergePreferences(base, flags cityscout.PreferenceParams, cmd *cobra.Command) cityscout.PreferenceParams {
	set := cmd.Flags().Changed
	if set("activities") {
		base.Activities = flags.Activities
	}
	if set("budget") {
		base.Budget = flags.Budget
	}
	if set("threshold") {
		base.ActivityThreshold = flags.ActivityThreshold
	}
	if set("filters") {
		base.SpecialFilters = flags.SpecialFilters
	}
	if set("temperature") {
		base.Temperature = flags.Temperature
	}
	if set("duration") {
		base.Duration = flags.Duration
	}
	if set("target") {
		base.TargetCity = flags.TargetCity
	}
	if set("exclude") {
		base.ExcludeCities = flags.ExcludeCities
	}
	return base
}
