package transform

import (
	"errors"
	"os"
	"strings"

	"github.com/dbmigrate/oratopg/parser"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config mirrors the three keys spec.md §6 names the core consumes,
// loaded the way the teacher's own cli/cmd/config.go reads
// sqlcode.yaml: a plain yaml.v3-tagged struct read from a project-root
// file.
type Config struct {
	DoAllSchemas      bool   `yaml:"do.all-schemas"`
	OnlyTestSchema    string `yaml:"do.only-test-schema"`
	DefaultParseEntry string `yaml:"default parse entry"`
}

// LoadConfig reads the oratopg.yaml file at path, mirroring
// cli/cmd/config.go's LoadConfig shape (stat-then-read-then-unmarshal,
// a plain error when the file is absent).
func LoadConfig(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Config{}, errors.New("no oratopg.yaml found at " + path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEntry returns the configured default parse entry, falling back
// to select_statement per spec.md §6's "default parse entry" row.
func (c Config) ParseEntry() parser.ParseEntry {
	if c.DefaultParseEntry == "" {
		return parser.EntrySelectStatement
	}
	return parser.ParseEntry(c.DefaultParseEntry)
}

// ResolveSchemas implements the do.all-schemas/do.only-test-schema
// interaction of spec.md §6: when DoAllSchemas is set, every known
// schema is processed; otherwise OnlyTestSchema's comma-separated list
// is trimmed and lower-cased, and any entry absent from knownSchemas is
// warned about and dropped rather than causing a failure (a missing
// configured schema is an operational hiccup, not a translation error).
func (c Config) ResolveSchemas(knownSchemas []string, logger logrus.FieldLogger) []string {
	if c.DoAllSchemas {
		return knownSchemas
	}

	known := make(map[string]bool, len(knownSchemas))
	for _, s := range knownSchemas {
		known[strings.ToLower(s)] = true
	}

	var out []string
	for _, raw := range strings.Split(c.OnlyTestSchema, ",") {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if !known[name] {
			if logger != nil {
				logger.WithField("schema", name).Warn("do.only-test-schema names a schema absent from the source catalog; dropping it")
			}
			continue
		}
		out = append(out, name)
	}
	return out
}
