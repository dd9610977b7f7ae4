package inject

import "testing"

func TestNewRejectsUnknownMode(t *testing.T) {
	if _, err := New(Options{Mode: "telegraph"}); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestCharVKShift(t *testing.T) {
	lower, shift, ok := charVK('a')
	if !ok || shift {
		t.Fatalf("charVK('a') = %v shift=%v", ok, shift)
	}
	upper, shift, ok := charVK('A')
	if !ok || !shift {
		t.Fatalf("charVK('A') = %v shift=%v", ok, shift)
	}
	if lower != upper {
		t.Errorf("upper and lower case map to different keys: %d vs %d", lower, upper)
	}
}

func TestTypeable(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"hello world 42 ", true},
		{"two\nlines", true},
		{"it's", false},
		{"héllo", false},
		{"嗨", false},
	}
	for _, c := range cases {
		if got := typeable(c.in); got != c.want {
			t.Errorf("typeable(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
