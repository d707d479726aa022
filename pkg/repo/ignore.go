package repo

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// IgnoreFile is the optional ignore list at the working tree root.
const IgnoreFile = ".yitignore"

// IgnoreChecker decides which working tree paths Status skips. The .yit
// directory is always ignored.
type IgnoreChecker struct {
	rules []ignoreRule
}

type ignoreRule struct {
	glob     string
	negated  bool
	dirOnly  bool
	anchored bool // contains a slash: match the full path, not the base name
	re       *regexp.Regexp
}

// NewIgnoreChecker reads root/.yitignore when present. Blank lines and
// lines starting with # are skipped; "!" negates, a trailing "/" limits a
// rule to directories and "**" spans path segments.
func NewIgnoreChecker(root string) *IgnoreChecker {
	ic := &IgnoreChecker{rules: []ignoreRule{{glob: DirName, dirOnly: true}}}

	f, err := os.Open(filepath.Join(root, IgnoreFile))
	if err != nil {
		return ic
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if rule, ok := parseIgnoreRule(scanner.Text()); ok {
			ic.rules = append(ic.rules, rule)
		}
	}
	return ic
}

func parseIgnoreRule(line string) (ignoreRule, bool) {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return ignoreRule{}, false
	}
	var rule ignoreRule
	if strings.HasPrefix(line, "!") {
		rule.negated = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		rule.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	line = strings.TrimPrefix(line, "/")
	if line == "" {
		return ignoreRule{}, false
	}
	rule.anchored = strings.Contains(line, "/")
	rule.glob = line
	if strings.Contains(line, "**") {
		rule.re = regexp.MustCompile(globstarRegexp(line))
	}
	return rule, true
}

// IsIgnored reports whether the slash-separated relative path p is ignored.
// A path inside an ignored directory is ignored too. The last matching rule
// wins.
func (ic *IgnoreChecker) IsIgnored(p string, isDir bool) bool {
	p = path.Clean(filepath.ToSlash(p))
	ignored := false
	for _, rule := range ic.rules {
		if rule.matches(p, isDir) {
			ignored = !rule.negated
		}
	}
	return ignored
}

func (r ignoreRule) matches(p string, isDir bool) bool {
	// Any ancestor directory matching the rule covers p.
	for dir := path.Dir(p); dir != "."; dir = path.Dir(dir) {
		if r.matchOne(dir) {
			return true
		}
	}
	if r.dirOnly && !isDir {
		return false
	}
	return r.matchOne(p)
}

func (r ignoreRule) matchOne(p string) bool {
	target := p
	if !r.anchored {
		target = path.Base(p)
	}
	if r.re != nil {
		return r.re.MatchString(target)
	}
	ok, _ := path.Match(r.glob, target)
	return ok
}

// globstarRegexp translates a glob with "**" into an anchored regexp.
func globstarRegexp(glob string) string {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(glob); i++ {
		switch c := glob[i]; {
		case strings.HasPrefix(glob[i:], "**/"):
			b.WriteString("(?:.*/)?")
			i += 2
		case strings.HasPrefix(glob[i:], "**"):
			b.WriteString(".*")
			i++
		case c == '*':
			b.WriteString("[^/]*")
		case c == '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("$")
	return b.String()
}
