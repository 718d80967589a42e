// Package manifest loads the exalt.json project manifest: the output
// module settings and the SemVer constraint on the target runtime the
// generated code may assume.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	semver "github.com/Masterminds/semver/v3"
)

// Manifest is the parsed project manifest.
type Manifest struct {
	// Name is the project name, used for output file naming.
	Name string `json:"name"`
	// Version is the project's own version.
	Version string `json:"version,omitempty"`
	// OutDir is where lowered modules are written. Defaults to ".".
	OutDir string `json:"outDir,omitempty"`
	// TargetRuntime constrains the runtime version the generated code may
	// assume, e.g. ">=1.14". Empty means any runtime.
	TargetRuntime string `json:"targetRuntime,omitempty"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates manifest bytes.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if strings.TrimSpace(m.Name) == "" {
		return nil, fmt.Errorf("manifest: missing project name")
	}
	if m.OutDir == "" {
		m.OutDir = "."
	}
	if _, err := m.RuntimeConstraint(); err != nil {
		return nil, err
	}
	return &m, nil
}

// RuntimeConstraint parses the target runtime constraint. An empty
// constraint accepts every version.
func (m *Manifest) RuntimeConstraint() (*semver.Constraints, error) {
	expr := strings.TrimSpace(m.TargetRuntime)
	if expr == "" {
		expr = ">=0.0.0"
	}
	c, err := semver.NewConstraint(expr)
	if err != nil {
		return nil, fmt.Errorf("manifest: bad targetRuntime %q: %w", m.TargetRuntime, err)
	}
	return c, nil
}

// CheckRuntime verifies that the given runtime version satisfies the
// manifest's constraint.
func (m *Manifest) CheckRuntime(version string) error {
	c, err := m.RuntimeConstraint()
	if err != nil {
		return err
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("manifest: bad runtime version %q: %w", version, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("manifest: runtime %s does not satisfy %q", version, m.TargetRuntime)
	}
	return nil
}
