package forge

import "testing"

func TestFirstLine(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"fix parser\n\nlong body", "fix parser"},
		{"single line", "single line"},
		{"trailing newline\n", "trailing newline"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := FirstLine(tc.in); got != tc.want {
			t.Fatalf("FirstLine(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapePath(t *testing.T) {
	if got := escapePath("dir/sub dir/file name.go"); got != "dir/sub%20dir/file%20name.go" {
		t.Fatalf("unexpected escape: %q", got)
	}
	if got := escapePath("plain/path.go"); got != "plain/path.go" {
		t.Fatalf("unexpected escape: %q", got)
	}
}
