package search

import "testing"

func TestScoreTiers(t *testing.T) {
	cases := []struct {
		name      string
		candidate string
		query     string
		want      float64
	}{
		{"exact", "MessageLogger", "messagelogger", 100},
		{"whitespace insensitive", "Message Logger", "messagelogger", 95},
		{"prefix", "MessageLogger", "message", 85},
		{"word boundary", "Silent Typing", "typing", 75},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.candidate, tc.query)
			if got != tc.want {
				t.Fatalf("Score(%q, %q) = %v, want %v", tc.candidate, tc.query, got, tc.want)
			}
		})
	}
}

func TestScoreSubstringBand(t *testing.T) {
	got := Score("AlwaysTrust", "ways")
	if got < 50 || got > 70 {
		t.Fatalf("substring score %v outside [50, 70]", got)
	}

	// The same substring nearer the start scores higher.
	late := Score("TrustAlways", "ways")
	if late >= got {
		t.Fatalf("later match scored %v, earlier match %v", late, got)
	}
}

func TestScoreFuzzyBand(t *testing.T) {
	// One transposition in a ten-letter name: similarity well above 0.6,
	// score inside (0, 40].
	got := Score("moyristify", "moyrisitfy")
	if got <= 0 || got > 40 {
		t.Fatalf("fuzzy score %v outside (0, 40]", got)
	}
}

func TestScoreDeterministic(t *testing.T) {
	pairs := [][2]string{
		{"MessageLogger", "mess"},
		{"Silent Typing", "typing"},
		{"velume", "volume"},
	}
	for _, p := range pairs {
		first := Score(p[0], p[1])
		second := Score(p[0], p[1])
		if first != second {
			t.Fatalf("Score(%q, %q) not deterministic: %v then %v", p[0], p[1], first, second)
		}
	}
}

func TestScoreRejectsDissimilar(t *testing.T) {
	if got := Score("MessageLogger", "xqzzzv"); got != 0 {
		t.Fatalf("expected 0 for dissimilar strings, got %v", got)
	}
}

func TestScoreEmptyQuery(t *testing.T) {
	if got := Score("anything", ""); got != 0 {
		t.Fatalf("expected 0 for empty query, got %v", got)
	}
}

func TestScoreTierOrdering(t *testing.T) {
	exact := Score("volume", "volume")
	prefix := Score("volumebooster", "volume")
	boundary := Score("audio volume tools", "volume")
	substring := Score("fixvolumenow", "volume")
	fuzzy := Score("velume", "volume")

	if !(exact > prefix && prefix > boundary && boundary > substring && substring > fuzzy && fuzzy > 0) {
		t.Fatalf("tier ordering violated: exact=%v prefix=%v boundary=%v substring=%v fuzzy=%v",
			exact, prefix, boundary, substring, fuzzy)
	}
}

func TestRankOrderAndThreshold(t *testing.T) {
	names := []string{"FakeNitro", "MessageLogger", "Message Logger Enhanced", "NoTrack"}

	// "MessageLogger" matches ignoring whitespace (95); the Enhanced
	// variant matches on prefix (85); the rest score 0.
	ranked := Rank(names, "message logger", 25)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ranked))
	}
	if ranked[0].Index != 1 {
		t.Fatalf("expected MessageLogger first, got index %d", ranked[0].Index)
	}
	if ranked[1].Index != 2 {
		t.Fatalf("expected Message Logger Enhanced second, got index %d", ranked[1].Index)
	}
}

func TestRankStableOnTies(t *testing.T) {
	// Both share the prefix tier; feed order must hold.
	names := []string{"volume one", "volume two"}
	ranked := Rank(names, "volume", 25)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ranked))
	}
	if ranked[0].Index != 0 || ranked[1].Index != 1 {
		t.Fatalf("tie broke feed order: %v", ranked)
	}
}

func TestRankEmptyInputs(t *testing.T) {
	if got := Rank(nil, "query", 0); got != nil {
		t.Fatalf("expected nil for empty names, got %v", got)
	}
	if got := Rank([]string{"a"}, "", 0); got != nil {
		t.Fatalf("expected nil for empty query, got %v", got)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Fatalf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
