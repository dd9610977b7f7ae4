package inject

import (
	"regexp"
	"sort"
	"strings"
)

// Built-in spoken punctuation, replaced case-insensitively on word
// boundaries after user overrides.
var builtinRules = []struct {
	word string
	repl string
}{
	{"period", "."},
	{"comma", ","},
	{"question mark", "?"},
	{"exclamation mark", "!"},
	{"colon", ":"},
	{"semicolon", ";"},
	{"new line", "\n"},
	{"tab", "\t"},
}

type rule struct {
	re   *regexp.Regexp
	repl string
}

// Rewriter applies user word overrides and spoken punctuation to a
// transcript and appends a trailing space for typing flow.
type Rewriter struct {
	rules []rule
}

func NewRewriter(overrides map[string]string) *Rewriter {
	r := &Rewriter{}
	// Sorted so override application order is stable run to run.
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.rules = append(r.rules, compileRule(k, overrides[k]))
	}
	for _, b := range builtinRules {
		r.rules = append(r.rules, compileRule(b.word, b.repl))
	}
	return r
}

func compileRule(word, repl string) rule {
	return rule{
		re:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`),
		repl: repl,
	}
}

// Apply rewrites text. Whitespace-only input yields the empty string which
// the injector treats as nothing to do.
func (r *Rewriter) Apply(text string) string {
	out := strings.TrimSpace(text)
	if out == "" {
		return ""
	}
	for _, rl := range r.rules {
		out = rl.re.ReplaceAllLiteralString(out, rl.repl)
	}
	return out + " "
}
