package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Save writes the scenario as <dir>/<slug>.yaml.
func Save(dir string, scn Scenario) error {
	if err := scn.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(scn)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, slug(scn.Name)+".yaml"), data, 0644)
}

// Load reads and validates one scenario file by name.
func Load(dir, name string) (Scenario, error) {
	data, err := os.ReadFile(filepath.Join(dir, slug(name)+".yaml"))
	if err != nil {
		return Scenario{}, err
	}

	var scn Scenario
	if err := yaml.Unmarshal(data, &scn); err != nil {
		return Scenario{}, fmt.Errorf("parsing scenario %q: %w", name, err)
	}
	if err := scn.Validate(); err != nil {
		return Scenario{}, err
	}
	return scn, nil
}

// List returns the names of valid scenario files under dir. A missing
// directory is an empty list, not an error.
func List(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		scn, err := Load(dir, strings.TrimSuffix(entry.Name(), ".yaml"))
		if err != nil {
			continue
		}
		names = append(names, scn.Name)
	}
	return names, nil
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
