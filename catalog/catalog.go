// Package catalog holds the static reference data of the demo: estates,
// blocks, the model registry and the copy shown on the dashboard.
package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"coffeeintel/models"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

var ErrUnknownEstate = errors.New("unknown estate")

// Fixtures is the decoded fixtures.yaml.
type Fixtures struct {
	Estates         []string                `yaml:"estates"`
	Blocks          []models.Block          `yaml:"blocks"`
	Models          []models.Model          `yaml:"models"`
	TrainingLog     []string                `yaml:"trainingLog"`
	Pipeline        []string                `yaml:"pipeline"`
	Recommendations []models.Recommendation `yaml:"recommendations"`
	DataSources     []models.DataSource     `yaml:"dataSources"`
	Schemas         []string                `yaml:"schemas"`
	FieldTasks      []string                `yaml:"fieldTasks"`
	OnboardingSteps []string                `yaml:"onboardingSteps"`
}

// LoadFixtures decodes the embedded fixtures.
func LoadFixtures() (*Fixtures, error) {
	return ParseFixtures(fixturesYAML)
}

// ParseFixtures decodes fixtures from raw YAML.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if len(f.Estates) == 0 {
		return nil, errors.New("fixtures: no estates")
	}
	return &f, nil
}

// MustFixtures is LoadFixtures for package init and tests.
func MustFixtures() *Fixtures {
	f, err := LoadFixtures()
	if err != nil {
		panic(err)
	}
	return f
}

// ValidEstate reports whether name is one of the enumerated estates.
func (f *Fixtures) ValidEstate(name string) bool {
	for _, e := range f.Estates {
		if e == name {
			return true
		}
	}
	return false
}

// FilterBlocks returns the blocks of estate in their original order.
// No match yields an empty, non-nil slice.
func FilterBlocks(blocks []models.Block, estate string) []models.Block {
	out := make([]models.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Estate == estate {
			out = append(out, b)
		}
	}
	return out
}

// Source serves block and model reference records.
type Source interface {
	Blocks(ctx context.Context) ([]models.Block, error)
	Models(ctx context.Context) ([]models.Model, error)
}

// Memory serves the fixtures from process memory.
type Memory struct {
	blocks []models.Block
	models []models.Model
}

// NewMemory returns a Source over f.
func NewMemory(f *Fixtures) *Memory {
	return &Memory{
		blocks: append([]models.Block(nil), f.Blocks...),
		models: append([]models.Model(nil), f.Models...),
	}
}

func (m *Memory) Blocks(context.Context) ([]models.Block, error) {
	return append([]models.Block(nil), m.blocks...), nil
}

func (m *Memory) Models(context.Context) ([]models.Model, error) {
	return append([]models.Model(nil), m.models...), nil
}
