package highlight

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	optionPattern = regexp2.MustCompile(
		`(?<attr>\w[^\s=]*)[^\S\r\n]*(?:=[^\S\r\n]*(?:"(?<quoted>(?:\\"|[^"])*)"|(?<value>[^\s"]\S*)))?|(?<err>\S+)`,
		regexp2.None)
	markerPattern = regexp2.MustCompile(
		`(?<start>\d+)(?:\s*-\s*(?<end>\d+))?|(?<err>[^\s,]+)`,
		regexp2.None)
)

// Options are the settings written after the opening fence, for example
// "go marker=1-3,5 offset=10 title=\"main.go\"".
type Options struct {
	Lang    string
	Values  map[string]string
	Flags   map[string]bool
	Markers []int
	Offset  int
}

// ParseOptions parses a fence info line. The first bare word is the
// language. Problems are returned as messages and never stop parsing.
func ParseOptions(info string) (Options, []string) {
	opts := Options{Values: map[string]string{}, Flags: map[string]bool{}}
	var problems []string
	seen := map[string]bool{}
	set := func(name string) bool {
		if seen[name] {
			problems = append(problems, "multiple values for the attribute '"+name+"'")
			return false
		}
		seen[name] = true
		return true
	}

	langSet := false
	eachMatch(optionPattern, info, func(m *regexp2.Match) {
		if err := group(m, "err"); err != "" {
			problems = append(problems, "unexpected characters '"+err+"'")
			return
		}
		name := group(m, "attr")
		switch {
		case hasGroup(m, "quoted"):
			if set(name) {
				opts.Values[name] = strings.ReplaceAll(group(m, "quoted"), `\"`, `"`)
			}
		case hasGroup(m, "value"):
			if set(name) {
				opts.Values[name] = group(m, "value")
			}
		case !langSet:
			opts.Lang = strings.ToLower(name)
			langSet = true
		default:
			if set(name) {
				opts.Flags[name] = true
			}
		}
	})

	if v, ok := opts.Values["offset"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			problems = append(problems, "invalid line offset '"+v+"'")
		}
		opts.Offset = n
	}
	if v, ok := opts.Values["marker"]; ok {
		markers, bad := parseMarkers(v)
		opts.Markers = markers
		for _, b := range bad {
			problems = append(problems, "invalid line marker '"+b+"'")
		}
	}
	return opts, problems
}

// parseMarkers expands "1-3,5" into sorted unique line numbers.
func parseMarkers(text string) (lines []int, bad []string) {
	seen := map[int]bool{}
	eachMatch(markerPattern, text, func(m *regexp2.Match) {
		if err := group(m, "err"); err != "" {
			bad = append(bad, err)
			return
		}
		start, _ := strconv.Atoi(group(m, "start"))
		end := start
		if hasGroup(m, "end") {
			end, _ = strconv.Atoi(group(m, "end"))
		}
		for i := start; i <= end; i++ {
			if !seen[i] {
				seen[i] = true
				lines = append(lines, i)
			}
		}
	})
	sort.Ints(lines)
	return lines, bad
}

func eachMatch(re *regexp2.Regexp, text string, fn func(*regexp2.Match)) {
	m, _ := re.FindStringMatch(text)
	for m != nil {
		if m.Length > 0 {
			fn(m)
		}
		m, _ = re.FindNextMatch(m)
	}
}

func hasGroup(m *regexp2.Match, name string) bool {
	g := m.GroupByName(name)
	return g != nil && len(g.Captures) > 0
}

func group(m *regexp2.Match, name string) string {
	if !hasGroup(m, name) {
		return ""
	}
	return m.GroupByName(name).String()
}
