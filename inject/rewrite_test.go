package inject

import "testing"

func TestApplySpokenPunctuation(t *testing.T) {
	r := NewRewriter(nil)
	cases := []struct {
		in   string
		want string
	}{
		{"hello world period", "hello world . "},
		{"one comma two", "one , two "},
		{"really question mark", "really ? "},
		{"wow exclamation mark", "wow ! "},
		{"first new line second", "first \n second "},
		{"Period", ". "},
	}
	for _, c := range cases {
		if got := r.Apply(c.in); got != c.want {
			t.Errorf("Apply(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestApplyWordBoundaries(t *testing.T) {
	r := NewRewriter(nil)
	// "periodic" must not match the "period" rule.
	if got := r.Apply("periodic table"); got != "periodic table " {
		t.Errorf("got %q", got)
	}
}

func TestApplyOverridesBeforeBuiltins(t *testing.T) {
	r := NewRewriter(map[string]string{
		"gonna":  "going to",
		"LGTM":   "looks good to me",
		"period": "menstrual cycle",
	})
	if got := r.Apply("I'm gonna ship it lgtm"); got != "I'm going to ship it looks good to me " {
		t.Errorf("got %q", got)
	}
	// A user override on a builtin word wins.
	if got := r.Apply("period"); got != "menstrual cycle " {
		t.Errorf("got %q", got)
	}
}

func TestApplyTrimsAndAppendsSpace(t *testing.T) {
	r := NewRewriter(nil)
	if got := r.Apply("  hello  "); got != "hello " {
		t.Errorf("got %q", got)
	}
}

func TestApplyEmptyInput(t *testing.T) {
	r := NewRewriter(nil)
	if got := r.Apply("   "); got != "" {
		t.Errorf("got %q, want empty", got)
	}
	if got := r.Apply(""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestApplyLiteralReplacement(t *testing.T) {
	r := NewRewriter(map[string]string{"amount": "$10"})
	if got := r.Apply("the amount due"); got != "the $10 due " {
		t.Errorf("got %q", got)
	}
}
