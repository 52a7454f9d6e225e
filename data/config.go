package data

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the YAML import format used to seed sites and the default
// tariff at startup, and by the tariff watcher for hot reload.
type Config struct {
	Sites  []Site  `json:"sites" yaml:"sites"`
	Tariff *Tariff `json:"tariff,omitempty" yaml:"tariff,omitempty"`
}

// LoadConfig reads and validates a YAML config file
func LoadConfig(file string) (Config, error) {
	var ret Config

	b, err := os.ReadFile(file)
	if err != nil {
		return ret, err
	}

	err = yaml.Unmarshal(b, &ret)
	if err != nil {
		return ret, fmt.Errorf("error parsing %v: %v", file, err)
	}

	for i := range ret.Sites {
		if err := ret.Sites[i].Validate(); err != nil {
			return ret, fmt.Errorf("config site %v: %v", i, err)
		}
	}

	if ret.Tariff != nil {
		ret.Tariff.SetDefaults()
		if err := ret.Tariff.Validate(); err != nil {
			return ret, fmt.Errorf("config tariff: %v", err)
		}
	}

	return ret, nil
}
