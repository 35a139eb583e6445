package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/docforma/internal/assemble"
	"github.com/dgallion1/docforma/internal/docspec"
	"github.com/dgallion1/docforma/internal/generate"
	"github.com/dgallion1/docforma/internal/partition"
)

// Profile bundles the locale-specific tables: the extraction defaults, the
// labels printed around generated content, the stock-phrase replacements and
// the partition keywords. Values in a profile file are layered over the
// built-in tables for its language, so a file only lists what it changes.
type Profile struct {
	Language          string            `yaml:"language"`
	Defaults          docspec.Defaults  `yaml:"defaults"`
	Labels            assemble.Labels   `yaml:"labels"`
	Cliches           map[string]string `yaml:"cliches"`
	PartitionKeywords []string          `yaml:"partition_keywords"`
}

// DefaultProfile returns the built-in profile for lang ("ru" or "en").
func DefaultProfile(lang string) Profile {
	if lang != "en" {
		lang = "ru"
	}
	return Profile{
		Language:          lang,
		Defaults:          docspec.DefaultsFor(lang),
		Labels:            assemble.LabelsFor(lang),
		Cliches:           generate.DefaultCliches(),
		PartitionKeywords: append([]string(nil), partition.DefaultKeywords...),
	}
}

// LoadProfile reads a YAML profile. An empty path returns DefaultProfile("ru").
func LoadProfile(path string) (Profile, error) {
	if path == "" {
		return DefaultProfile("ru"), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes a YAML profile over the defaults of its language.
func ParseProfile(data []byte) (Profile, error) {
	var head struct {
		Language string `yaml:"language"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}

	p := DefaultProfile(head.Language)
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	p.Defaults = p.Defaults.Complete()
	p.Labels = p.Labels.Complete()
	return p, nil
}
