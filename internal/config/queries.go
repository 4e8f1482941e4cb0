package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type queryFile struct {
	Active []string `yaml:"active"`
}

// LoadQueries reads queries/<platform>.yaml and returns its active list.
// A missing file is not an error: the platform is simply skipped.
func LoadQueries(dir, platform string) ([]string, error) {
	path := filepath.Join(dir, platform+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read queries for %s", platform)
	}

	var qf queryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, errors.Wrapf(err, "parse queries for %s", platform)
	}

	out := make([]string, 0, len(qf.Active))
	for _, q := range qf.Active {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

// LoadContextFile reads an optional free-text context document (ICP profile,
// positioning notes). Missing files yield an empty string. The content is a
// forward-compatible input slot: it is loaded and logged but not yet consumed
// by scoring.
func LoadContextFile(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return string(data)
}
