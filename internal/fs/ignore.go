package fs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreFileName is the per-directory file listing intake exclusions.
const IgnoreFileName = ".intakeignore"

// builtinIgnores are applied on top of configured and file-based patterns.
var builtinIgnores = []string{IgnoreFileName}

type ignoreRule struct {
	glob     string
	fullPath bool // glob contains '/', so it is matched against the relative path
}

// IgnoreMatcher decides which raw files are left out of intake.
// Rules without '/' are matched against the base name, rules with '/' against
// the slash-separated relative path.
type IgnoreMatcher struct {
	rules []ignoreRule
}

// NewIgnoreMatcher parses raw glob lines. Blank lines and '#' comments are dropped.
func NewIgnoreMatcher(lines []string) *IgnoreMatcher {
	m := &IgnoreMatcher{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.rules = append(m.rules, ignoreRule{glob: line, fullPath: strings.Contains(line, "/")})
	}
	return m
}

// LoadIgnoreMatcher combines the built-in rules, the configured patterns and the
// lines of dir/.intakeignore when present.
func LoadIgnoreMatcher(dir string, configured []string) (*IgnoreMatcher, error) {
	fromFile, err := ReadIgnoreFile(filepath.Join(dir, IgnoreFileName))
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(builtinIgnores)+len(configured)+len(fromFile))
	lines = append(lines, builtinIgnores...)
	lines = append(lines, configured...)
	lines = append(lines, fromFile...)
	return NewIgnoreMatcher(lines), nil
}

// Match reports whether relativePath is excluded.
func (m *IgnoreMatcher) Match(relativePath string) bool {
	if m == nil || len(m.rules) == 0 || relativePath == "" {
		return false
	}

	slashed := filepath.ToSlash(relativePath)
	base := filepath.Base(relativePath)

	for _, r := range m.rules {
		subject := base
		if r.fullPath {
			subject = slashed
		}
		// filepath.Match only fails on malformed globs; those never match.
		if ok, err := filepath.Match(r.glob, subject); err == nil && ok {
			return true
		}
	}
	return false
}

// ReadIgnoreFile returns the raw lines of an ignore file, or nil if it is absent.
func ReadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return lines, nil
}
