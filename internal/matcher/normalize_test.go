package matcher

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercase", input: "JOHN SMITH", want: "john smith"},
		{name: "accents stripped", input: "José García", want: "jose garcia"},
		{name: "punctuation removed", input: "O'Brien, Mary-Jane", want: "obrien maryjane"},
		{name: "whitespace collapsed", input: "  John \t  Smith  ", want: "john smith"},
		{name: "digits kept", input: "Crew 2 Lead", want: "crew 2 lead"},
		{name: "empty", input: "", want: ""},
		{name: "only punctuation", input: "––––", want: ""},
		{name: "mixed unicode", input: "Łukasz  Nowak", want: "ukasz nowak"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"José García", "JOHN   SMITH", "o'brien", "", "Crew 2"}
	for _, s := range inputs {
		once := Normalize(s)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}

func TestNormalizeAccentCaseInvariance(t *testing.T) {
	if Normalize("José García") != Normalize("JOSE GARCIA") {
		t.Errorf("accent/case variants should normalize identically: %q vs %q",
			Normalize("José García"), Normalize("JOSE GARCIA"))
	}
}
