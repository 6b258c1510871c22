package reporting

import (
	"scenario-shock-lab/internal/config"
)

// LastYearSpec configures the current vs prior vintage table.
type LastYearSpec struct {
	ScenarioName string           `yaml:"scenario_name" json:"scenario_name" validate:"required"`
	PriorVintage string           `yaml:"prior_vintage" json:"prior_vintage" validate:"required"`
	PriorName    string           `yaml:"prior_name" json:"prior_name"`
	Factors      []LastYearFactor `yaml:"factors" json:"factors" validate:"required,min=1,dive"`
}

// LastYearFactor is one row of the last-year table.
type LastYearFactor struct {
	Factor         string  `yaml:"factor" json:"factor" validate:"required"`
	Label          string  `yaml:"label" json:"label"`
	Template       string  `yaml:"template" json:"template" validate:"required"`
	ChangeTemplate string  `yaml:"change_template" json:"change_template"`
	DeltaScale     float64 `yaml:"delta_scale" json:"delta_scale"`
}

// HistorySpec configures the multi-vintage history table.
type HistorySpec struct {
	ScenarioName string          `yaml:"scenario_name" json:"scenario_name" validate:"required"`
	AverageName  string          `yaml:"average_name" json:"average_name"`
	Columns      []HistoryColumn `yaml:"columns" json:"columns" validate:"required,min=1,dive"`
}

// HistoryColumn is one factor column of the history table.
type HistoryColumn struct {
	Factor   string `yaml:"factor" json:"factor" validate:"required"`
	Header   string `yaml:"header" json:"header"`
	Symbol   string `yaml:"symbol" json:"symbol"`
	Unit     string `yaml:"unit" json:"unit"`
	Template string `yaml:"template" json:"template"`
}

// AvgGFCSpec configures the heatmap table against the CCAR average and the GFC.
type AvgGFCSpec struct {
	ScenarioName  string        `yaml:"scenario_name" json:"scenario_name" validate:"required"`
	HeatmapColors HeatmapColors `yaml:"heatmap_colors" json:"heatmap_colors"`
	FactorGroups  []FactorGroup `yaml:"factor_groups" json:"factor_groups" validate:"required,min=1,dive"`
}

// HeatmapColors are hex fills for the relative cells.
type HeatmapColors struct {
	Green string `yaml:"green" json:"green"`
	Red   string `yaml:"red" json:"red"`
}

// FactorGroup is a labelled block of rows in the avg/GFC table.
type FactorGroup struct {
	Group   string        `yaml:"group" json:"group" validate:"required"`
	Factors []GroupFactor `yaml:"factors" json:"factors" validate:"required,min=1,dive"`
}

// GroupFactor is one row of the avg/GFC table.
// Scale converts the current shock into the unit of the reference values.
type GroupFactor struct {
	Factor   string  `yaml:"factor" json:"factor" validate:"required"`
	Name     string  `yaml:"name" json:"name" validate:"required"`
	Template string  `yaml:"template" json:"template"`
	Scale    float64 `yaml:"scale" json:"scale"`
}

// ReferenceKind classifies a reference row.
type ReferenceKind string

const (
	ReferenceVintage ReferenceKind = "vintage"
	ReferenceAverage ReferenceKind = "average"
	ReferenceGFC     ReferenceKind = "gfc"
)

// Reference is a row of historical shock values keyed by factor id.
type Reference struct {
	Label   string             `yaml:"label" json:"label" validate:"required"`
	Kind    ReferenceKind      `yaml:"kind" json:"kind" validate:"required,oneof=vintage average gfc"`
	Vintage string             `yaml:"vintage" json:"vintage"`
	Values  map[string]float64 `yaml:"values" json:"values"`
}

// ReferenceSet is the history/reference_shocks document.
type ReferenceSet struct {
	References []Reference `yaml:"references" json:"references" validate:"dive"`
}

// ByKind returns references of one kind in document order.
func (s *ReferenceSet) ByKind(kind ReferenceKind) []Reference {
	var out []Reference
	for _, r := range s.References {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func LoadLastYearSpec(path string) (*LastYearSpec, error) {
	var s LastYearSpec
	if err := config.DecodeFile(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func LoadHistorySpec(path string) (*HistorySpec, error) {
	var s HistorySpec
	if err := config.DecodeFile(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func LoadAvgGFCSpec(path string) (*AvgGFCSpec, error) {
	var s AvgGFCSpec
	if err := config.DecodeFile(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func LoadReferences(path string) (*ReferenceSet, error) {
	var s ReferenceSet
	if err := config.DecodeFile(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
