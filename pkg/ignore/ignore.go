// Package ignore loads and applies literal ignore rules.
package ignore

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// RuleSet excludes paths from collection. A path matches when a rule
// appears anywhere in its slash-separated form, or equals its final
// segment. Rules are plain literals, not globs.
type RuleSet struct {
	rules []string
}

// New builds a RuleSet from literal patterns.
func New(rules ...string) *RuleSet {
	return &RuleSet{rules: rules}
}

// Load reads an ignore file: one literal pattern per line, blank lines
// and lines starting with '#' skipped. A missing file is not an error
// and yields an empty RuleSet.
func Load(appFs afero.Fs, filePath string) (*RuleSet, error) {
	content, err := afero.ReadFile(appFs, filePath)
	if os.IsNotExist(err) {
		return &RuleSet{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read ignore file %s: %v", filePath, err)
	}

	rs := &RuleSet{}
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rs.rules = append(rs.rules, line)
	}

	return rs, nil
}

// Match returns true when relPath is excluded by any rule.
func (r *RuleSet) Match(relPath string) bool {
	base := path.Base(relPath)
	for _, rule := range r.rules {
		if strings.Contains(relPath, rule) || base == rule {
			return true
		}
	}

	return false
}

// Len returns the number of loaded rules.
func (r *RuleSet) Len() int {
	return len(r.rules)
}
