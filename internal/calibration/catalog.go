package calibration

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Catalog maps a tank profile name (e.g. "16kl") to its DIP chart.
type Catalog struct {
	profiles map[string]models.CalibrationTable
}

type catalogFile struct {
	Profiles map[string]models.CalibrationTable `yaml:"profiles"`
}

// Load reads a catalog from path, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calibration file '%s': %w", path, err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse calibration catalog: %w", err)
	}

	if len(file.Profiles) == 0 {
		return nil, errors.New("calibration catalog has no profiles")
	}

	for name, table := range file.Profiles {
		if err := validateTable(table); err != nil {
			return nil, fmt.Errorf("profile '%s': %w", name, err)
		}
	}

	return &Catalog{profiles: file.Profiles}, nil
}

// Table returns the chart for profile, or nil when the profile is unknown.
func (c *Catalog) Table(profile string) models.CalibrationTable {
	if c == nil {
		return nil
	}
	return c.profiles[profile]
}

// Has reports whether profile is defined.
func (c *Catalog) Has(profile string) bool {
	return len(c.Table(profile)) > 0
}

// Profiles lists the profile names in lexical order.
func (c *Catalog) Profiles() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.profiles))
	for name := range c.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validateTable(table models.CalibrationTable) error {
	if len(table) == 0 {
		return errors.New("chart is empty")
	}

	for i, p := range table {
		if p.Dip < 0 || p.Volume < 0 {
			return fmt.Errorf("point %d has a negative value", i)
		}
		if i == 0 {
			continue
		}
		prev := table[i-1]
		if p.Dip < prev.Dip {
			return fmt.Errorf("point %d: dip %.2f is below previous %.2f", i, p.Dip, prev.Dip)
		}
		if p.Volume < prev.Volume {
			return fmt.Errorf("point %d: volume %.2f is below previous %.2f", i, p.Volume, prev.Volume)
		}
	}

	return nil
}
