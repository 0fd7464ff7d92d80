// Package seed provides the sample records each workspace is initialized
// with.
package seed

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
)

//go:embed seed.yaml
var defaultSeed []byte

// Data is one full set of seed records, one list per screen.
type Data struct {
	NGOs          []domain.NGO          `yaml:"ngos" json:"ngos"`
	AdminProjects []domain.AdminProject `yaml:"admin_projects" json:"admin_projects"`
	NGOProjects   []domain.NGOProject   `yaml:"ngo_projects" json:"ngo_projects"`
}

// Default returns a fresh copy of the built-in seed.
func Default() Data {
	d, err := Parse(defaultSeed)
	if err != nil {
		panic(fmt.Sprintf("embedded seed: %v", err))
	}
	return d
}

// Load reads seed records from a YAML file. An empty path selects the
// built-in seed.
func Load(path string) (Data, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and checks seed YAML. Record ids must be unique per screen.
func Parse(raw []byte) (Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("parse seed: %w", err)
	}
	if err := uniqueIDs("ngos", d.NGOs); err != nil {
		return Data{}, err
	}
	if err := uniqueIDs("admin_projects", d.AdminProjects); err != nil {
		return Data{}, err
	}
	if err := uniqueIDs("ngo_projects", d.NGOProjects); err != nil {
		return Data{}, err
	}
	return d, nil
}

// Clone returns a deep copy so workspaces never share slices or maps.
func (d Data) Clone() Data {
	out := Data{
		NGOs:          slices.Clone(d.NGOs),
		AdminProjects: slices.Clone(d.AdminProjects),
		NGOProjects:   slices.Clone(d.NGOProjects),
	}
	for i := range out.AdminProjects {
		out.AdminProjects[i].FocusAreas = slices.Clone(out.AdminProjects[i].FocusAreas)
		out.AdminProjects[i].Indicators = slices.Clone(out.AdminProjects[i].Indicators)
	}
	for i := range out.NGOProjects {
		out.NGOProjects[i].IndicatorValues = maps.Clone(out.NGOProjects[i].IndicatorValues)
	}
	return out
}

func uniqueIDs[T domain.Record](screen string, records []T) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		id := r.RecordID()
		if id == "" {
			return fmt.Errorf("seed %s: record without id", screen)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("seed %s: duplicate id %q", screen, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
