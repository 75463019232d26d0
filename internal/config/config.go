// Package config loads the run configuration: which file to process,
// which jurisdictions to count, and which classification policy applies.
// Keeping these out of package-level constants lets different
// configurations coexist in one process.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tlcaputi/territories-mortality-stats/internal/icd"
	"github.com/tlcaputi/territories-mortality-stats/internal/mortality"
)

// Jurisdiction is one entry of the jurisdictions list. List order is
// output order.
type Jurisdiction struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// Config is the yaml-backed run configuration.
type Config struct {
	// DataFile is the fixed-width mortality file (or zip archive) to
	// process. Usually overridden on the command line.
	DataFile string `yaml:"data_file"`

	// MinRecordLength discards shorter lines entirely. 150 covers the
	// underlying-cause fields; raise to 443 to require the full
	// contributing-conditions region.
	MinRecordLength int `yaml:"min_record_length"`

	// Policy names the drug-related definition: "nvsr-exact" or
	// "broad-t-codes".
	Policy string `yaml:"policy"`

	// ExcludeForeignResidents drops resident-status 4 records before
	// counting, matching CDC WONDER methodology.
	ExcludeForeignResidents bool `yaml:"exclude_foreign_residents"`

	Jurisdictions []Jurisdiction `yaml:"jurisdictions"`

	// MannerLabels maps manner-of-death byte values to display labels.
	MannerLabels map[string]string `yaml:"manner_labels"`
}

// Default returns the configuration of the CDC 2023 territory run.
func Default() Config {
	return Config{
		MinRecordLength: 150,
		Policy:          string(icd.PolicyNVSRExact),
		Jurisdictions: []Jurisdiction{
			{Code: "PR", Name: "Puerto Rico"},
			{Code: "GU", Name: "Guam"},
			{Code: "VI", Name: "Virgin Islands"},
			{Code: "AS", Name: "American Samoa"},
			{Code: "MP", Name: "Northern Mariana Islands"},
		},
		MannerLabels: map[string]string{
			"1": "Accident",
			"2": "Suicide",
			"3": "Homicide",
			"4": "Pending investigation",
			"5": "Could not determine",
			"6": "Self-Inflicted",
			"7": "Natural",
			" ": "Not specified",
		},
	}
}

// Load reads path over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.MinRecordLength < 0 {
		return fmt.Errorf("min_record_length must not be negative")
	}
	if len(c.Jurisdictions) == 0 {
		return fmt.Errorf("jurisdictions list is empty")
	}
	if _, err := icd.ParsePolicy(c.Policy); err != nil {
		return err
	}
	return nil
}

// Rules builds the classification rules named by the config.
func (c Config) Rules() (icd.Rules, error) {
	p, err := icd.ParsePolicy(c.Policy)
	if err != nil {
		return icd.Rules{}, err
	}
	return icd.NewRules(p), nil
}

// Registry builds the jurisdiction registry from the config.
func (c Config) Registry() *mortality.Registry {
	jurisdictions := make([]mortality.Jurisdiction, len(c.Jurisdictions))
	for i, j := range c.Jurisdictions {
		jurisdictions[i] = mortality.Jurisdiction{Code: j.Code, Name: j.Name}
	}
	return mortality.NewRegistry(jurisdictions)
}

// MannerLabel returns the display label for a manner-of-death value,
// falling back to "Unknown".
func (c Config) MannerLabel(code string) string {
	if label, ok := c.MannerLabels[code]; ok {
		return label
	}
	return "Unknown"
}
