package filter

import "testing"

func TestCompileEmpty(t *testing.T) {
	m, err := Compile(nil)
	if err != nil {
		t.Fatalf("Compile(nil) returned error: %v", err)
	}
	if m != nil {
		t.Fatalf("Compile(nil) = %v, want nil matcher", m)
	}
	if m.Match("anything") {
		t.Fatalf("nil matcher matched")
	}
}

func TestCompileMalformed(t *testing.T) {
	if _, err := Compile([]string{"[unterminated"}); err == nil {
		t.Fatalf("expected error for malformed pattern")
	}
}

func TestMatchBasic(t *testing.T) {
	m, err := Compile([]string{"*.log", "cache/**"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	cases := []struct {
		path string
		want bool
	}{
		{"noise.log", true},
		{"sub/noise.log", false},
		{"cache/a/b.txt", true},
		{"a.txt", false},
	}
	for _, c := range cases {
		if got := m.Match(c.path); got != c.want {
			t.Errorf("Match(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestMatchNormalizesSeparators(t *testing.T) {
	m, err := Compile([]string{"sub/*.bin"})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !m.Match(`sub\b.bin`) {
		t.Fatalf("expected backslash-separated path to normalize and match")
	}
}
