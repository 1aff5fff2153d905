package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stanstork/batchboard-api/internal/aggregate"
	"github.com/stanstork/batchboard-api/internal/models"
)

// DurationRange bounds a generated run duration in minutes, inclusive.
type DurationRange struct {
	Min int
	Max int
}

// StatusWeight is one entry of a status distribution.
type StatusWeight struct {
	Status models.RunStatus
	Weight float64
}

// Preset is a named generation policy. Each preset reproduces one of the
// dataset shapes the dashboards have been built against.
type Preset struct {
	Name               string
	DurationRange      DurationRange
	StatusDistribution []StatusWeight
	Weight             aggregate.WeightFunc
}

const (
	PresetWeighted = "weighted"
	PresetUniform  = "uniform"
)

// DefaultPreset is used when no preset is configured.
const DefaultPreset = PresetWeighted

var presets = map[string]Preset{
	PresetWeighted: {
		Name:          PresetWeighted,
		DurationRange: DurationRange{Min: 30, Max: 480},
		StatusDistribution: []StatusWeight{
			{Status: models.RunStatusCompleted, Weight: 0.7},
			{Status: models.RunStatusFailed, Weight: 0.2},
			{Status: models.RunStatusPending, Weight: 0.1},
		},
		Weight: aggregate.StatusWeights,
	},
	PresetUniform: {
		Name:          PresetUniform,
		DurationRange: DurationRange{Min: 5, Max: 240},
		StatusDistribution: []StatusWeight{
			{Status: models.RunStatusCompleted, Weight: 1},
			{Status: models.RunStatusFailed, Weight: 1},
			{Status: models.RunStatusPending, Weight: 1},
		},
		Weight: aggregate.EqualWeights,
	},
}

// LookupPreset returns the preset registered under name. An empty name
// resolves to DefaultPreset.
func LookupPreset(name string) (Preset, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultPreset
	}
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown generator preset %q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	return p, nil
}

// PresetNames lists registered presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
