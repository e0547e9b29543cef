// Package collector walks a local directory tree and gathers the files
// to publish, keyed by their repository-relative path.
package collector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/ghpush/ghpush/pkg/ignore"
)

var appFs = afero.NewOsFs()

// Directories never worth publishing, pruned regardless of ignore rules.
var prunedDirs = map[string]bool{
	"venv":        true,
	"__pycache__": true,
}

type logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Collect walks the tree rooted at root and returns the content of every
// regular file that isn't under a hidden or pruned directory and doesn't
// match an ignore rule. Keys are forward-slash relative paths with no
// leading "./". Unreadable files are reported and skipped; the walk
// continues. An empty map is a valid result.
func Collect(log logger, root string, rules *ignore.RuleSet) (map[string][]byte, error) {
	if _, err := appFs.Stat(root); err != nil {
		return nil, fmt.Errorf("cannot read root directory %s: %v", root, err)
	}

	files := make(map[string][]byte)

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warnf("skipped %s: %v", path, err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			name := info.Name()
			if path != root && (strings.HasPrefix(name, ".") || prunedDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			log.Warnf("skipped %s: %v", path, err)
			return nil
		}

		rel = filepath.ToSlash(rel)
		if rules.Match(rel) {
			return nil
		}

		content, err := afero.ReadFile(appFs, path)
		if err != nil {
			log.Warnf("skipped %s: %v", rel, err)
			return nil
		}

		files[rel] = content
		log.Infof("  + %s", rel)
		return nil
	}

	if err := afero.Walk(appFs, root, walkFn); err != nil {
		return nil, fmt.Errorf("failed to walk %s: %v", root, err)
	}

	return files, nil
}
