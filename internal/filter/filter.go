// Package filter compiles ordered glob pattern lists into matchers used to
// include or exclude relative paths from a sync job.
package filter

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher answers whether a forward-slash-normalised relative path matches
// any pattern in the compiled set. A nil *Matcher never matches anything,
// so callers can treat an absent include/ignore list as "no restriction"
// without a separate existence check.
type Matcher struct {
	globs []glob.Glob
}

// Compile builds a Matcher from an ordered list of glob patterns. It fails
// fast if any pattern is malformed rather than deferring the error to the
// first match attempt.
func Compile(patterns []string) (*Matcher, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	m := &Matcher{globs: make([]glob.Glob, 0, len(patterns))}
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("filter: malformed pattern %q: %w", p, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Match reports whether relPath matches any compiled pattern. The path is
// normalised to forward slashes first so callers on any platform get
// portable results.
func (m *Matcher) Match(relPath string) bool {
	if m == nil {
		return false
	}
	normalized := filepathToSlash(relPath)
	for _, g := range m.globs {
		if g.Match(normalized) {
			return true
		}
	}
	return false
}

func filepathToSlash(p string) string {
	if strings.Contains(p, "\\") {
		p = strings.ReplaceAll(p, "\\", "/")
	}
	return path.Clean(p)
}
